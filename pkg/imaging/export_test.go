package imaging

// AcquireSurface exposes the scratch allocator to external tests.
var AcquireSurface = acquireSurface
