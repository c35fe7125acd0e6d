package analysis_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"image"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/nanohunter/internal/analysis"
	"github.com/JaimeStill/nanohunter/internal/history"
	"github.com/JaimeStill/nanohunter/pkg/imaging"
	"github.com/JaimeStill/nanohunter/pkg/kv"
	"github.com/JaimeStill/nanohunter/pkg/routes"
)

type formFile struct {
	field string
	name  string
	data  []byte
}

func multipartBody(t *testing.T, files []formFile, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func newAnalysisServer(t *testing.T, reply string, maxUpload int64) (*httptest.Server, *fixture) {
	t.Helper()

	f := newFixture(t, reply)
	mux := http.NewServeMux()
	routes.Register(mux, f.sys.Handler(maxUpload).Routes())

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, f
}

func post(t *testing.T, url string, body *bytes.Buffer, contentType string) *http.Response {
	t.Helper()
	res, err := http.Post(url, contentType, body)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func errorMessage(t *testing.T, res *http.Response) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body["error"]
}

func TestAnalyzeCreatesEntry(t *testing.T) {
	srv, f := newAnalysisServer(t, validReply, 1<<20)

	body, ct := multipartBody(t,
		[]formFile{{"image", "cat.png", pngBytes(t, 64, 32)}},
		map[string]string{
			"options":         `{"face":false,"lighting":true}`,
			"aspect_ratio":    "4:3",
			"subject_mode":    "OBJECT",
			"user_prompt":     "  studio shot  ",
			"negative_prompt": "noise",
		},
	)

	res := post(t, srv.URL+"/analyze", body, ct)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var entry history.Entry
	require.NoError(t, json.NewDecoder(res.Body).Decode(&entry))
	assert.Equal(t, "cat.png", entry.SourceName)
	assert.Equal(t, "4:3", string(entry.AspectRatio))
	assert.Equal(t, "OBJECT", string(entry.SubjectMode))
	assert.Len(t, f.history.Entries(), 1)

	req := f.client.last(t)
	assert.Contains(t, req.Instruction, `USER NOTE: "studio shot"`)
	assert.Contains(t, req.Instruction, "noise Human face")
	assert.Contains(t, req.Instruction, "keep the lighting")
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	png := pngBytes(t, 16, 16)

	tests := []struct {
		name   string
		files  []formFile
		fields map[string]string
		status int
	}{
		{
			name:   "missing image",
			fields: map[string]string{"aspect_ratio": "1:1"},
			status: http.StatusBadRequest,
		},
		{
			name:   "not an image",
			files:  []formFile{{"image", "notes.txt", []byte("plain text notes")}},
			status: http.StatusUnsupportedMediaType,
		},
		{
			name:   "unknown aspect ratio",
			files:  []formFile{{"image", "a.png", png}},
			fields: map[string]string{"aspect_ratio": "5:4"},
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown subject mode",
			files:  []formFile{{"image", "a.png", png}},
			fields: map[string]string{"subject_mode": "ANIMAL"},
			status: http.StatusBadRequest,
		},
		{
			name:   "malformed options",
			files:  []formFile{{"image", "a.png", png}},
			fields: map[string]string{"options": "[true]"},
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown option key",
			files:  []formFile{{"image", "a.png", png}},
			fields: map[string]string{"options": `{"tail":true}`},
			status: http.StatusBadRequest,
		},
		{
			name:   "unsupported reference",
			files:  []formFile{{"image", "a.png", png}, {"reference", "r.txt", []byte("nope, text")}},
			status: http.StatusUnsupportedMediaType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, f := newAnalysisServer(t, validReply, 1<<20)

			body, ct := multipartBody(t, tt.files, tt.fields)
			res := post(t, srv.URL+"/analyze", body, ct)

			assert.Equal(t, tt.status, res.StatusCode)
			assert.NotEmpty(t, errorMessage(t, res))
			assert.Empty(t, f.history.Entries())
		})
	}
}

func TestAnalyzeFileTooLarge(t *testing.T) {
	srv, _ := newAnalysisServer(t, validReply, 256)

	body, ct := multipartBody(t, []formFile{{"image", "big.png", append(pngBytes(t, 8, 8), make([]byte, 1024)...)}}, nil)
	res := post(t, srv.URL+"/analyze", body, ct)

	assert.Equal(t, http.StatusRequestEntityTooLarge, res.StatusCode)
}

func TestAnalyzeNotMultipart(t *testing.T) {
	srv, _ := newAnalysisServer(t, validReply, 1<<20)

	res := post(t, srv.URL+"/analyze", bytes.NewBufferString(`{"image":"x"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestAnalyzeGenerationFailure(t *testing.T) {
	srv, f := newAnalysisServer(t, "no json here", 1<<20)

	body, ct := multipartBody(t, []formFile{{"image", "a.png", pngBytes(t, 8, 8)}}, nil)
	res := post(t, srv.URL+"/analyze", body, ct)

	assert.Equal(t, http.StatusBadGateway, res.StatusCode)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), errorMessage(t, res))
	assert.Empty(t, f.history.Entries())
}

func TestNormalizeEndpoint(t *testing.T) {
	srv, _ := newAnalysisServer(t, validReply, 1<<20)

	body, ct := multipartBody(t, []formFile{{"image", "wide.png", pngBytes(t, 3072, 1024)}}, nil)
	res := post(t, srv.URL+"/images/normalize", body, ct)
	require.Equal(t, http.StatusOK, res.StatusCode)

	assert.Equal(t, "image/jpeg", res.Header.Get("Content-Type"))
	assert.Equal(t, "1536", res.Header.Get("X-Image-Width"))
	assert.Equal(t, "512", res.Header.Get("X-Image-Height"))

	img, err := jpeg.Decode(res.Body)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1536, 512), img.Bounds())
}

func TestNormalizeEndpointRejectsText(t *testing.T) {
	srv, _ := newAnalysisServer(t, validReply, 1<<20)

	body, ct := multipartBody(t, []formFile{{"image", "a.txt", []byte(strings.Repeat("a", 64))}}, nil)
	res := post(t, srv.URL+"/images/normalize", body, ct)

	assert.Equal(t, http.StatusUnsupportedMediaType, res.StatusCode)
}

type failingNormalizer struct{ err error }

func (n failingNormalizer) Normalize(ctx context.Context, raw []byte) (*imaging.Payload, error) {
	return nil, n.err
}

func TestNormalizeEndpointEnvironmentFailure(t *testing.T) {
	logger := discardLogger()
	ledger := history.New(kv.NewMemory(), history.DefaultKey, logger)
	envErr := fmt.Errorf("%w: allocate 1 bytes", imaging.ErrEnvironment)
	sys := analysis.New(failingNormalizer{err: envErr}, &recordingClient{reply: validReply}, ledger, "", logger)

	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler(1<<20).Routes())
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	for _, path := range []string{"/images/normalize", "/analyze"} {
		t.Run(path, func(t *testing.T) {
			body, ct := multipartBody(t, []formFile{{"image", "a.png", pngBytes(t, 8, 8)}}, nil)
			res := post(t, srv.URL+path, body, ct)

			assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
			assert.Equal(t, http.StatusText(http.StatusInternalServerError), errorMessage(t, res))
		})
	}
	assert.Empty(t, ledger.Entries())
}

func TestNormalizeEndpointRejectsOversizedDeclaration(t *testing.T) {
	srv, _ := newAnalysisServer(t, validReply, 1<<20)

	data := pngBytes(t, 8, 8)
	binary.BigEndian.PutUint32(data[16:20], 100000)
	binary.BigEndian.PutUint32(data[20:24], 100000)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))

	body, ct := multipartBody(t, []formFile{{"image", "bomb.png", data}}, nil)
	res := post(t, srv.URL+"/images/normalize", body, ct)

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
