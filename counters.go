package borrowser

// Counters exposes parse-session observability state through public APIs
// (spec.md §7, SUPPLEMENTED FEATURES #4): callers can poll these without
// instrumenting the pipeline themselves.
type Counters struct {
	TokensProcessed  int
	PatchesEmitted   int
	DecodeErrors     int
	ParseErrors      int
	InvariantErrors  int

	MaxOpenElementsDepth int

	// MaxActiveFormattingDepth is always 0: this tree builder treats
	// formatting elements like any other element and keeps no active
	// formatting list, per spec.md §4.4's documented minimal-implementation
	// allowance ("clear on body close" instead of full reconstruction).
	MaxActiveFormattingDepth int
}
