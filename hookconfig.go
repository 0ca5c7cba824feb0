package mucgly

// HookKind selects which delimiter sf_set_hook mutates (hook_t in the
// original).
type HookKind int

const (
	HookBeg HookKind = iota
	HookEnd
	HookEsc
)

// HookConfig is the per-InputSource delimiter set: either single mode (one
// HookPair plus esc/eater) or multi mode (a vector of HookPairs plus
// esc/eater). Exactly one of the two modes is active at a time.
type HookConfig struct {
	pair  HookPair // single-mode pair (Susp unused in single mode)
	multi []HookPair

	esc   string
	eater string // empty means "no eater configured"

	escEqBeg bool // derived, single mode only
	escEqEnd bool // derived, single mode only

	firstByte [256]bool // first-byte screening bitmap
}

// NewHookConfig builds a single-mode HookConfig with the given delimiters,
// the way a freshly created stack_default template is built in the
// original (sf_new's non-inherit branch).
func NewHookConfig(beg, end, esc string) *HookConfig {
	hc := &HookConfig{
		pair: HookPair{Beg: beg, End: end},
		esc:  esc,
	}
	hc.recompute()
	return hc
}

// Clone deep-copies a HookConfig. Pushing a new InputSource deep-copies the
// HookConfig of the current top of the InputStack.
func (hc *HookConfig) Clone() *HookConfig {
	clone := *hc
	if hc.multi != nil {
		clone.multi = append([]HookPair(nil), hc.multi...)
	}
	return &clone
}

// Multi reports whether the config is currently in multi-hook mode.
func (hc *HookConfig) Multi() bool { return hc.multi != nil }

// Pair returns the single-mode hook pair (valid only outside multi mode).
func (hc *HookConfig) Pair() HookPair { return hc.pair }

// MultiPairs returns the multi-mode hook vector in match-priority order.
func (hc *HookConfig) MultiPairs() []HookPair { return hc.multi }

// Esc returns the configured escape string.
func (hc *HookConfig) Esc() string { return hc.esc }

// Eater returns the configured eater string and whether one is set.
func (hc *HookConfig) Eater() (string, bool) { return hc.eater, hc.eater != "" }

// EscEqBeg / EscEqEnd report the derived single-mode speed-up booleans used
// by the escape-handling branch of the parser's main loop.
func (hc *HookConfig) EscEqBeg() bool { return !hc.Multi() && hc.escEqBeg }
func (hc *HookConfig) EscEqEnd() bool { return !hc.Multi() && hc.escEqEnd }

// FirstByteHit reports whether c could start any active delimiter: the O(1)
// bitmap screen the main loop probes before attempting any real match.
func (hc *HookConfig) FirstByteHit(c byte) bool { return hc.firstByte[c] }

// SetHook mutates one of the three scalar delimiters (sf_set_hook). Setting
// beg or end while in multi mode drops back to single mode first, clearing
// the multi vector.
func (hc *HookConfig) SetHook(kind HookKind, value string) {
	if hc.Multi() && kind != HookEsc {
		hc.multi = nil
	}
	switch kind {
	case HookBeg:
		hc.pair.Beg = value
	case HookEnd:
		hc.pair.End = value
	case HookEsc:
		hc.esc = value
	}
	hc.recompute()
}

// SetEater sets or clears (value == "") the eater string.
func (hc *HookConfig) SetEater(value string) {
	hc.eater = value
	hc.recompute()
}

// AddMulti appends a (beg, end, susp) triple to the multi-hook vector,
// switching to multi mode on the first call (sf_multi_hook). Fails fatally
// (via the returned error) if esc equals beg or end, or if the vector is
// already at MultiLimit entries.
func (hc *HookConfig) AddMulti(beg, end, susp string) error {
	if hc.esc == beg || hc.esc == end {
		return &MucglyError{
			Severity: SeverityFatal,
			Message:  "Esc hook is not allowed to match multihooks",
		}
	}
	if hc.multi == nil {
		hc.multi = make([]HookPair, 0, MultiLimit)
	}
	if len(hc.multi) >= MultiLimit {
		return &MucglyError{
			Severity: SeverityFatal,
			Message:  "Too many multihooks, 127 allowed!",
		}
	}
	hc.multi = append(hc.multi, HookPair{Beg: beg, End: end, Susp: susp})
	hc.recompute()
	return nil
}

// recompute rebuilds the derived booleans and the first-byte bitmap from
// scratch (sf_update_hook_cache). Recomputing from scratch on every
// mutation is simpler than the original's incremental single-entry update
// and is cheap: the bitmap only has as many set bits as there are active
// delimiters.
func (hc *HookConfig) recompute() {
	hc.firstByte = [256]bool{}

	if hc.Multi() {
		// Esc can never match multihooks.
		hc.escEqBeg = false
		hc.escEqEnd = false

		for _, pair := range hc.multi {
			hc.markFirstByte(pair.Beg)
			hc.markFirstByte(pair.End)
			hc.markFirstByte(pair.Susp)
		}
		hc.markFirstByte(hc.esc)
		return
	}

	hc.escEqBeg = hc.esc == hc.pair.Beg
	hc.escEqEnd = hc.esc == hc.pair.End

	hc.markFirstByte(hc.pair.Beg)
	hc.markFirstByte(hc.pair.End)
	hc.markFirstByte(hc.esc)
}

func (hc *HookConfig) markFirstByte(s string) {
	if s != "" {
		hc.firstByte[s[0]] = true
	}
}
