package compress

// Provider resolves algorithm ids to concrete compressors and answers
// capability queries. A provider is selected once at construction time and
// injected into the token pipeline, so capability decisions never leak into
// conditional branches scattered through the codec.
//
// Resolution applies a fixed substitution rule: when a requested algorithm
// is not available, For returns the Deflate compressor instead. The rule is
// identical on the compress and decompress paths, which is what keeps the
// wire format honest: the token header records the requested id, and two
// processes with equal providers always resolve it to the same compressor.
type Provider interface {
	// Available reports whether the algorithm can be used on this build.
	Available(Algorithm) bool

	// For returns the compressor for the algorithm, substituting Deflate
	// when the algorithm is unavailable. None is never substituted.
	For(Algorithm) Compressor
}

// compressors indexed by wire id. All implementations are stateless values,
// so sharing them across providers and goroutines is safe.
var compressors = map[Algorithm]Compressor{
	None:    noneCompressor{},
	Brotli:  brotliCompressor{},
	Deflate: deflateCompressor{},
	Zlib:    zlibCompressor{},
}

// defaultProvider reports every algorithm available. All codecs here are
// pure Go, so this is the provider virtually every caller wants.
type defaultProvider struct{}

func (defaultProvider) Available(a Algorithm) bool {
	return a.Valid()
}

func (defaultProvider) For(a Algorithm) Compressor {
	if c, ok := compressors[a]; ok {
		return c
	}
	return compressors[Deflate]
}

// NewProvider returns the default capability provider with every algorithm
// available.
func NewProvider() Provider {
	return defaultProvider{}
}

// restrictedProvider limits the available set, modelling constrained builds.
// None and Deflate are always available: None is a pass-through and Deflate
// is the required portable fallback.
type restrictedProvider struct {
	available map[Algorithm]bool
}

// NewRestrictedProvider returns a provider that only offers the listed
// algorithms plus the always-available None and Deflate. It exists for
// constrained builds and for testing the substitution rule.
func NewRestrictedProvider(algorithms ...Algorithm) Provider {
	available := map[Algorithm]bool{
		None:    true,
		Deflate: true,
	}
	for _, a := range algorithms {
		if a.Valid() {
			available[a] = true
		}
	}
	return restrictedProvider{available: available}
}

func (p restrictedProvider) Available(a Algorithm) bool {
	return p.available[a]
}

func (p restrictedProvider) For(a Algorithm) Compressor {
	if p.available[a] {
		return compressors[a]
	}
	return compressors[Deflate]
}

// DefaultAlgorithm returns the highest-ratio algorithm the provider offers,
// probing Brotli, then Zlib, then falling back to Deflate.
func DefaultAlgorithm(p Provider) Algorithm {
	for _, a := range []Algorithm{Brotli, Zlib} {
		if p.Available(a) {
			return a
		}
	}
	return Deflate
}
