package timeframe

import (
	"errors"
	"math"
	"testing"

	"github.com/matryer/is"

	"github.com/suar-net/ghost-gateway/internal/model"
)

func TestDefaultTable(t *testing.T) {
	is := is.New(t)
	tbl := Default()

	tfs := tbl.Timeframes()
	is.Equal(len(tfs), 9)
	is.Equal(tfs[0].Name, "1m")
	is.Equal(tfs[8].Name, "1M")

	cfg := tbl.Config()
	is.Equal(cfg.Metadata.TotalTimeframes, len(tfs))
	is.Equal(cfg.Metadata.TotalAliases, len(cfg.Aliases))
	is.Equal(len(cfg.Providers), len(cfg.Metadata.SupportedProviders))

	// Config hands out copies.
	cfg.Timeframes[0].Weight = 99
	w, err := tbl.Weight("1m")
	is.NoErr(err)
	is.Equal(w, 0.1)
}

func TestToAPIFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1m", "minute1"},
		{"5m", "minute5"},
		{"15m", "minute15"},
		{"30m", "minute30"},
		{"1h", "hour1"},
		{"4h", "hour4"},
		{"1d", "daily"},
		{"1w", "weekly"},
		{"1M", "monthly"},
		{"5min", "minute5"},
		{"1hour", "hour1"},
		{"4hours", "hour4"},
		{"daily", "daily"},
		{"monthly", "monthly"},
	}
	tbl := Default()
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			is := is.New(t)
			got, err := tbl.ToAPIFormat(tt.in)
			is.NoErr(err)
			is.Equal(got, tt.want)
		})
	}
}

func TestToAPIFormat_Unknown(t *testing.T) {
	is := is.New(t)
	for _, in := range []string{"", "2h", "minute5", "1mo", "1D"} {
		got, err := Default().ToAPIFormat(in)
		is.True(errors.Is(err, ErrUnknownTimeframe))
		is.Equal(got, "")
	}
}

func TestWeight(t *testing.T) {
	is := is.New(t)
	tbl := Default()

	w, err := tbl.Weight("1d")
	is.NoErr(err)
	is.Equal(w, 1.0)

	w, err = tbl.Weight("weekly")
	is.NoErr(err)
	is.Equal(w, 1.5)

	_, err = tbl.Weight("3d")
	is.True(errors.Is(err, ErrUnknownTimeframe))
}

func TestConfluence(t *testing.T) {
	tbl := Default()

	t.Run("weighted average", func(t *testing.T) {
		is := is.New(t)
		got, err := tbl.Confluence(map[string]float64{"1d": 0.8, "1h": 0.6})
		is.NoErr(err)
		// (0.8*1.0 + 0.6*0.5) / 1.5
		is.True(math.Abs(got-0.7333333) < 1e-6)
	})

	t.Run("aliases and unknown keys", func(t *testing.T) {
		is := is.New(t)
		got, err := tbl.Confluence(map[string]float64{"daily": 0.5, "bogus": 1.0})
		is.NoErr(err)
		is.Equal(got, 0.5)
	})

	t.Run("single timeframe", func(t *testing.T) {
		is := is.New(t)
		got, err := tbl.Confluence(map[string]float64{"1M": 0.25})
		is.NoErr(err)
		is.Equal(got, 0.25)
	})

	t.Run("empty", func(t *testing.T) {
		is := is.New(t)
		_, err := tbl.Confluence(map[string]float64{})
		is.True(errors.Is(err, ErrNoTimeframes))
	})

	t.Run("nothing recognised", func(t *testing.T) {
		is := is.New(t)
		_, err := tbl.Confluence(map[string]float64{"2h": 0.9, "x": 0.1})
		is.True(errors.Is(err, ErrNoTimeframes))
	})
}

func TestByCategory(t *testing.T) {
	is := is.New(t)
	tbl := Default()

	short, err := tbl.ByCategory(ShortTerm)
	is.NoErr(err)
	is.Equal(names(short), []string{"1m", "5m", "15m"})

	long, err := tbl.ByCategory(LongTerm)
	is.NoErr(err)
	is.Equal(names(long), []string{"1d", "1w", "1M"})

	_, err = tbl.ByCategory("intraday")
	is.True(errors.Is(err, ErrUnknownCategory))
}

func TestMultiTemporal(t *testing.T) {
	is := is.New(t)
	got := Default().MultiTemporal()
	is.Equal(names(got), []string{"15m", "1h", "4h", "1d", "1w"})
	for i := 1; i < len(got); i++ {
		is.True(got[i-1].Weight <= got[i].Weight)
	}
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  model.TimeframesConfigResponse
	}{
		{"empty", model.TimeframesConfigResponse{}},
		{"duplicate", model.TimeframesConfigResponse{Timeframes: []model.TimeframeMetadata{
			{Name: "1h", Weight: 1}, {Name: "1h", Weight: 1},
		}}},
		{"zero weight", model.TimeframesConfigResponse{Timeframes: []model.TimeframeMetadata{
			{Name: "1h"},
		}}},
		{"dangling alias", model.TimeframesConfigResponse{
			Timeframes: []model.TimeframeMetadata{{Name: "1h", Weight: 1}},
			Aliases:    map[string]string{"hourly": "60m"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			_, err := New(tt.cfg)
			is.True(err != nil)
		})
	}
}

func TestParse_JSON(t *testing.T) {
	is := is.New(t)
	tbl, err := Parse([]byte(`{"timeframes":[{"name":"1h","weight":0.5,"aliases":["60m"]}],"aliases":{"1hour":"1h"}}`))
	is.NoErr(err)

	api, err := tbl.ToAPIFormat("60m")
	is.NoErr(err)
	is.Equal(api, "hour1")
}

func names(tfs []model.TimeframeMetadata) []string {
	out := make([]string, len(tfs))
	for i, tf := range tfs {
		out[i] = tf.Name
	}
	return out
}
