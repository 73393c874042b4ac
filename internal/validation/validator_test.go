package validation

import (
	"strings"
	"testing"

	"github.com/matryer/is"
)

type sample struct {
	Name    string `validate:"required"`
	URL     string `validate:"httpurl"`
	Addr    string `validate:"hostname_port"`
	Level   string `validate:"oneof=debug info"`
	Count   int    `validate:"gt=0"`
	Percent int    `validate:"gte=0,lte=100"`
	Code    string `validate:"max=3"`
}

func valid() sample {
	return sample{
		Name:    "gateway",
		URL:     "https://api.example.com",
		Addr:    "0.0.0.0:8085",
		Level:   "info",
		Count:   1,
		Percent: 50,
		Code:    "abc",
	}
}

func TestStruct_Valid(t *testing.T) {
	is := is.New(t)
	is.NoErr(Struct(valid()))
}

func TestStruct_Messages(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*sample)
		want   string
	}{
		{"required", func(s *sample) { s.Name = "" }, "Field 'Name' is required"},
		{"httpurl", func(s *sample) { s.URL = "ftp://x" }, "Field 'URL' must start with http:// or https://"},
		{"hostname_port", func(s *sample) { s.Addr = "8085" }, "Field 'Addr' must be a host:port address"},
		{"oneof", func(s *sample) { s.Level = "trace" }, "Field 'Level' must be one of [debug info]"},
		{"gt", func(s *sample) { s.Count = 0 }, "Field 'Count' must be greater than 0"},
		{"lte", func(s *sample) { s.Percent = 101 }, "Field 'Percent' must be less than or equal to 100"},
		{"gte", func(s *sample) { s.Percent = -1 }, "Field 'Percent' must be greater than or equal to 0"},
		{"max", func(s *sample) { s.Code = "abcd" }, "Field 'Code' must be at most 3 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			s := valid()
			tt.mutate(&s)
			err := Struct(s)
			is.True(err != nil)
			is.Equal(err.Error(), tt.want)
		})
	}
}

func TestStruct_JoinsMultipleErrors(t *testing.T) {
	is := is.New(t)
	s := valid()
	s.Name = ""
	s.Count = 0
	err := Struct(s)
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "Field 'Name' is required, "))
	is.True(strings.Contains(err.Error(), "Field 'Count' must be greater than 0"))
}

func TestVar(t *testing.T) {
	is := is.New(t)
	is.NoErr(Var("symbol", "AAPL", "required,max=16"))

	err := Var("symbol", "", "required,max=16")
	is.True(err != nil)
	is.Equal(err.Error(), "Field 'symbol' is required")
}

func TestVar_NamesFieldForEveryTag(t *testing.T) {
	tests := []struct {
		name  string
		value any
		tag   string
		want  string
	}{
		{"max", "TOOLONGSYMBOLNAME12", "max=16", "Field 'symbol' must be at most 16 characters"},
		{"httpurl", "ftp://x", "httpurl", "Field 'symbol' must start with http:// or https://"},
		{"oneof", "x", "oneof=a b", "Field 'symbol' must be one of [a b]"},
		{"unlisted tag", "abc", "numeric", "Field 'symbol' failed on the 'numeric' tag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			err := Var("symbol", tt.value, tt.tag)
			is.True(err != nil)
			is.Equal(err.Error(), tt.want)
		})
	}
}

func TestValidationError_PassesThroughOtherErrors(t *testing.T) {
	is := is.New(t)
	is.Equal(ValidationError(nil), "")
	is.Equal(ValidationError(errString("boom")), "boom")
}

type errString string

func (e errString) Error() string { return string(e) }
