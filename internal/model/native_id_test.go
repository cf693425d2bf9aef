package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNativeIDRoundTrip(t *testing.T) {
	tests := []struct {
		in     string
		str    string
		out    string
		isZero bool
	}{
		{`123`, "123", `123`, false},
		{`"abc"`, "abc", `"abc"`, false},
		{`"42"`, "42", `"42"`, false},
		{`0`, "0", `0`, true},
		{`""`, "", `null`, true},
		{`null`, "", `null`, true},
		{`{"x":1}`, "", `null`, true},
		{`[1]`, "", `null`, true},
		{`true`, "", `null`, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var v struct {
				ID NativeID `json:"id"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"id":`+tt.in+`}`), &v))
			assert.Equal(t, tt.str, v.ID.String())
			assert.Equal(t, tt.isZero, v.ID.IsZero())

			out, err := json.Marshal(v.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.out, string(out))
		})
	}
}

func TestNativeIDMissingField(t *testing.T) {
	var v struct {
		ID NativeID `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &v))
	assert.True(t, v.ID.IsZero())
}

func TestNativeIDAsNumber(t *testing.T) {
	num, _ := json.Marshal(StringID("3001").AsNumber())
	assert.Equal(t, `3001`, string(num))

	word, _ := json.Marshal(StringID("abc").AsNumber())
	assert.Equal(t, `"abc"`, string(word))

	for _, s := range []string{"NaN", "Inf", "0x10"} {
		out, _ := json.Marshal(StringID(s).AsNumber())
		assert.Equal(t, `"`+s+`"`, string(out), s)
	}
	assert.True(t, NativeID{}.AsNumber().IsZero())
}

func TestSourceFailedJSONOrder(t *testing.T) {
	sf := NewSourceFailed("melolo", "netshort", "flickreels", "dramabox")
	sf.Set("netshort", true)

	out, err := json.Marshal(sf)
	require.NoError(t, err)
	assert.Equal(t, `{"melolo":false,"netshort":true,"flickreels":false,"dramabox":false}`, string(out))
	assert.True(t, sf.Get("netshort"))
	assert.False(t, sf.Get("unknown"))

	var nilSF *SourceFailed
	out, err = json.Marshal(nilSF)
	require.NoError(t, err)
	assert.Equal(t, `null`, string(out))
	assert.False(t, nilSF.Get("melolo"))
}
