package api

import (
	"github.com/JaimeStill/nanohunter/internal/analysis"
	"github.com/JaimeStill/nanohunter/internal/history"
	"github.com/JaimeStill/nanohunter/internal/options"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Options  *options.Handler
	History  history.System
	Analysis analysis.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	historySystem := history.New(
		runtime.Store,
		runtime.HistoryKey,
		runtime.Logger,
	)

	analysisSystem := analysis.New(
		runtime.Imaging,
		runtime.Vision,
		historySystem,
		runtime.SecondaryLanguage,
		runtime.Logger,
	)

	return &Domain{
		Options:  options.NewHandler(runtime.Logger),
		History:  historySystem,
		Analysis: analysisSystem,
	}
}

// Start registers domain systems that need lifecycle hooks.
func (d *Domain) Start(runtime *Runtime) error {
	return d.History.Start(runtime.Lifecycle)
}
