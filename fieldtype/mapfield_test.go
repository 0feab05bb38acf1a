package fieldtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixarntz/wpdlib/errors"
)

func TestMap_ValidateCoords(t *testing.T) {
	m := newTestManager()
	f := mustField(t, m, Args{"type": "map", "store": "coords"})

	tests := []struct {
		name    string
		value   any
		want    any
		wantErr error
	}{
		{"absent", nil, "", nil},
		{"empty", "", "", nil},
		{"integers", "45|-93", "45|-93", nil},
		{"spaces", " 45.5 | -93.25 ", "45.5|-93.25", nil},
		{"zero coordinate", "0|0", "0|0", nil},
		{"single part", "45", nil, errors.ErrInvalidCoordsFormat},
		{"three parts", "1|2|3", nil, errors.ErrInvalidCoordsFormat},
		{"not numeric", "north|west", nil, errors.ErrInvalidCoordsFormat},
		{"latitude out of range", "95|0", nil, errors.ErrLatitudeOutOfRange},
		{"longitude out of range", "45|200", nil, errors.ErrLongitudeOutOfRange},
		{"longitude lower bound", "45|-180", "45|-180", nil},
		{"leading plus", "+45|.5", "45|0.5", nil},
		{"nan", "NaN|0", nil, errors.ErrInvalidCoordsFormat},
		{"infinity", "45|Inf", nil, errors.ErrInvalidCoordsFormat},
		{"hex float", "0x1p-2|0", nil, errors.ErrInvalidCoordsFormat},
		{"exponent", "1e1|0", nil, errors.ErrInvalidCoordsFormat},
		{"underscores", "4_5|0", nil, errors.ErrInvalidCoordsFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := f.Validate(tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestMap_LocaleSeparator(t *testing.T) {
	m := newTestManager(WithLocale(germanLocale()))
	f := mustField(t, m, Args{"type": "map", "store": "coords"})

	v, err := f.Validate("45,5|-93,25")
	require.NoError(t, err)
	assert.Equal(t, "45.5|-93.25", v)
	assert.Contains(t, f.Display(v), `&#34;decimal_separator&#34;:&#34;,&#34;`)
}

func TestMap_Parse(t *testing.T) {
	m := newTestManager()
	f := mustField(t, m, Args{"type": "map", "store": "coords", "id": "loc"})

	assert.Equal(t, "45.5000000000|-93.2500000000", f.Parse("45.5|-93.25", Raw))
	assert.Equal(t, "", f.Parse("45.5", Raw))
	assert.True(t, f.IsEmpty("45|"))
	assert.False(t, f.IsEmpty("45|-93"))
	assert.Contains(t, f.Display(""), `placeholder="0.0|0.0"`)
	assert.Equal(t, []string{"wp-map-picker"}, f.Assets().Dependencies)
}

func TestMap_Address(t *testing.T) {
	m := newTestManager()
	f := mustField(t, m, Args{"type": "map", "store": "somewhere"})

	v, err := f.Validate("<b>1 Main St</b>")
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", v)
	assert.Equal(t, StoreAddress, f.(*Map).Store())
	assert.Contains(t, f.Display("1 Main St"), `&#34;store&#34;:&#34;address&#34;`)
}
