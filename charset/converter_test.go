package charset

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize_Idempotent(t *testing.T) {
	samples := []string{
		"",
		"plain ascii",
		"man\u0303ana",
		"e\u0301\u0308",
		"\u0301",
		"t\uFE20s\uFE21",
		"a\u0323\u0307",
		"\u1E9B\u0323",
		"\uFFFD\u0301",
	}
	for _, fx := range diacriticFixtures {
		samples = append(samples, fx.decomposed, fx.composed)
	}
	for _, s := range samples {
		once := Normalize(s)
		require.Equal(t, once, Normalize(once), "%q", s)
		require.True(t, IsNormalized(once))
	}
}

func TestNormalize_NoComposedForm(t *testing.T) {
	// No precomposed q with tilde exists.
	require.Equal(t, "q\u0303", Normalize("q\u0303"))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		strategy  string
		normalize bool
		input     string
		want      string
	}{
		{"default is identity", "", false, "ma\xE4nana", "ma\xE4nana"},
		{"identity ignores normalize", "identity", true, "ma\xE4nana", "ma\xE4nana"},
		{"marc8", "marc8", false, "ma\xE4nana", "man\u0303ana"},
		{"marc8 normalized", "MARC8", true, "ma\xE4nana", "ma\u00F1ana"},
		{"ansel alias", "ansel", false, "c\xE3ote", "co\u0302te"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.strategy, FallbackStrict, tt.normalize)
			require.NoError(t, err)
			got, err := c.Convert(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := New("utf-16", FallbackReplace, false)
	require.Error(t, err)
}

func TestWithNormalization(t *testing.T) {
	require.Equal(t, Identity, WithNormalization(nil))
	require.Equal(t, Identity, WithNormalization(Identity))

	n := WithNormalization(MARC8{})
	require.Equal(t, Normalized{Inner: MARC8{}}, n)
	require.Equal(t, n, WithNormalization(n))
}

func TestMARC8_PropagatesStrictError(t *testing.T) {
	_, err := Normalized{Inner: MARC8{Fallback: FallbackStrict}}.Convert("a\xAF")
	require.ErrorIs(t, err, ErrConversion)
}

func TestParseFallback(t *testing.T) {
	for name, want := range map[string]Fallback{
		"":            FallbackReplace,
		"replace":     FallbackReplace,
		"Strict":      FallbackStrict,
		"passthrough": FallbackPassthrough,
	} {
		got, err := ParseFallback(name)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseFallback("ignore")
	require.Error(t, err)
}

func TestConverter_ConcurrentUse(t *testing.T) {
	conv := WithNormalization(MARC8{Fallback: FallbackStrict})
	var wg sync.WaitGroup
	errs := make(chan error, 8*len(diacriticFixtures))
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, fx := range diacriticFixtures {
				got, err := conv.Convert(fx.marc8)
				if err != nil {
					errs <- err
					continue
				}
				if got != fx.composed {
					errs <- &ConversionError{Reason: "mismatch for " + fx.name}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	t.Logf("✓ %d goroutines shared one converter", 8)
}
