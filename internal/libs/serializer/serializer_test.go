package serializer

import (
	"errors"
	"testing"

	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/sampledist/internal/sentinel"
)

type payload struct {
	Family string    `json:"family" msgpack:"family" codec:"family"`
	Counts []int     `json:"counts" msgpack:"counts" codec:"counts"`
	Means  []float64 `json:"means" msgpack:"means" codec:"means"`
}

func TestRegistry_DefaultSerializers(t *testing.T) {
	in := payload{Family: "normal", Counts: []int{0, 3, 1}, Means: []float64{99.5, 101.25}}

	for _, name := range []string{"default", "msgpack", "cbor"} {
		s, err := New(name)
		assert.Nil(t, err)

		data, err := s.Marshal(in)
		assert.NoError(t, err)
		assert.True(t, len(data) > 0)

		var out payload

		err = s.Unmarshal(data, &out)
		assert.NoError(t, err)
		assert.Equal(t, in.Family, out.Family)
		assert.Equal(t, in.Counts, out.Counts)
		assert.Equal(t, in.Means, out.Means)
		assert.True(t, s.ContentType() != "")
	}
}

func TestRegistry_Errors(t *testing.T) {
	_, err := New("")
	if !errors.Is(err, sentinel.ErrParamCannotBeEmpty) {
		t.Fatalf("expected ErrParamCannotBeEmpty, got %v", err)
	}

	_, err = NewEmptySerializerRegistry().New("default")
	if !errors.Is(err, sentinel.ErrSerializerNotFound) {
		t.Fatalf("expected ErrSerializerNotFound, got %v", err)
	}
}
