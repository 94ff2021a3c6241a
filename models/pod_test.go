package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePODPaths(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want PODPaths
	}{
		{"empty", "", PODPaths{}},
		{"json null", "null", PODPaths{}},
		{"json array", `["https://cdn/a.jpg","https://cdn/b.jpg"]`, PODPaths{"https://cdn/a.jpg", "https://cdn/b.jpg"}},
		{"json string", `"https://cdn/a.jpg"`, PODPaths{"https://cdn/a.jpg"}},
		{"bare url", "https://cdn/a.jpg", PODPaths{"https://cdn/a.jpg"}},
		{"comma joined", "https://cdn/a.jpg, https://cdn/b.jpg,", PODPaths{"https://cdn/a.jpg", "https://cdn/b.jpg"}},
		{"array with blanks", `["", " https://cdn/a.jpg "]`, PODPaths{"https://cdn/a.jpg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePODPaths(tt.raw))
		})
	}
}

func TestCanonical(t *testing.T) {
	assert.True(t, Canonical(`[]`))
	assert.True(t, Canonical(`["a"]`))
	assert.False(t, Canonical(`null`))
	assert.False(t, Canonical(`"a"`))
	assert.False(t, Canonical(`a,b`))
}

func TestPODPathsUnionKeepsOrderAndDedupes(t *testing.T) {
	p := PODPaths{"a", "b"}
	got := p.Union([]string{" c ", "a", "", "c"})
	assert.Equal(t, PODPaths{"a", "b", "c"}, got)
	assert.Equal(t, PODPaths{"a", "b"}, p, "receiver is not modified")
}

func TestPODPathsStatusAndLatest(t *testing.T) {
	var empty PODPaths
	assert.Equal(t, PODPending, empty.Status())
	_, ok := empty.Latest()
	assert.False(t, ok)

	p := PODPaths{"a", "b"}
	assert.Equal(t, PODReceived, p.Status())
	latest, ok := p.Latest()
	assert.True(t, ok)
	assert.Equal(t, "b", latest)
}

func TestPODPathsValueAndScan(t *testing.T) {
	v, err := PODPaths(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = PODPaths{"a"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, v)

	var p PODPaths
	require.NoError(t, p.Scan([]byte("x,y")))
	assert.Equal(t, PODPaths{"x", "y"}, p)
	require.NoError(t, p.Scan(nil))
	assert.Equal(t, PODPaths{}, p)
	assert.Error(t, p.Scan(42))
}

func TestPODPayloadAcceptsStringOrList(t *testing.T) {
	var one PODPayload
	require.NoError(t, json.Unmarshal([]byte(`{"pod_url":"https://cdn/a.jpg"}`), &one))
	assert.Equal(t, []string{"https://cdn/a.jpg"}, one.URLs)

	var many PODPayload
	require.NoError(t, json.Unmarshal([]byte(`{"pod_urls":["a","b"]}`), &many))
	assert.Equal(t, []string{"a", "b"}, many.URLs)

	var bad PODPayload
	assert.Error(t, json.Unmarshal([]byte(`{"pod_url":12}`), &bad))
}

func TestNormalizeVehicle(t *testing.T) {
	assert.Equal(t, "MH12AB1234", NormalizeVehicle(" mh 12 ab\t1234 "))
}

func TestParseSlipType(t *testing.T) {
	st, err := ParseSlipType("pay_slip")
	require.NoError(t, err)
	assert.Equal(t, PaySlip, st)

	_, err = ParseSlipType("bilty")
	assert.Error(t, err)
}

func TestTripCloneIsDeep(t *testing.T) {
	n := int64(4)
	name := "Ramesh"
	orig := &Trip{MotorOwnerName: &name, PaySlipNumber: &n, PODPath: PODPaths{"a"}}
	c := orig.Clone()
	*c.MotorOwnerName = "Suresh"
	*c.PaySlipNumber = 9
	c.PODPath[0] = "z"

	assert.Equal(t, "Ramesh", *orig.MotorOwnerName)
	assert.Equal(t, int64(4), *orig.PaySlipNumber)
	assert.Equal(t, PODPaths{"a"}, orig.PODPath)
}
