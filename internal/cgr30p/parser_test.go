package cgr30p

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerotrace-data/aerotrace/internal/ems"
)

const recordingHeader = "TIME,RPM,MAP,OILP,OILT,FUELP,VOLTS,AMPS,EGT1,EGT2,EGT3,EGT4,CHT1,CHT2,CHT3,CHT4,GMETER"

func TestParserClassify(t *testing.T) {
	p := NewParser()
	assert.Equal(t, ems.RecordKindHeader, p.Classify(recordingHeader))
	assert.Equal(t, ems.RecordKindSample, p.Classify("10:15:02,2380,24.1"))
	assert.Equal(t, ems.RecordKindStatus, p.Classify(`{"device":"CGR-30P"}`))
	assert.Equal(t, ems.RecordKindUnknown, p.Classify("READY"))
}

func TestDecodeSampleBeforeHeader(t *testing.T) {
	p := NewParser()
	_, err := p.DecodeSample("10:15:02,2380,24.1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoHeader))
}

func TestDecodeSampleFullRow(t *testing.T) {
	p := NewParser()
	require.NoError(t, p.HandleHeader(recordingHeader))
	require.True(t, p.HasHeader())

	data, err := p.DecodeSample("10:15:02,2380,24.1,62.4,182.0,26.8,14.1,8.2,1305,1318,1296,1322,355,361,348,366,1.02")
	require.NoError(t, err)

	require.NotNil(t, data.RPM)
	assert.Equal(t, 2380.0, *data.RPM)
	require.NotNil(t, data.ManifoldPressure)
	assert.Equal(t, 24.1, *data.ManifoldPressure)
	require.NotNil(t, data.OilPressure)
	assert.Equal(t, 62.4, *data.OilPressure)
	require.NotNil(t, data.OilTemperature)
	assert.Equal(t, 182.0, *data.OilTemperature)
	require.NotNil(t, data.FuelPressure)
	assert.Equal(t, 26.8, *data.FuelPressure)
	require.NotNil(t, data.Volts)
	assert.Equal(t, 14.1, *data.Volts)
	require.NotNil(t, data.Amps)
	assert.Equal(t, 8.2, *data.Amps)
	require.NotNil(t, data.GForce)
	assert.Equal(t, 1.02, *data.GForce)

	require.Len(t, data.EGTs, 4)
	assert.Equal(t, ems.CylinderReading{Cylinder: 1, Value: 1305}, data.EGTs[0])
	assert.Equal(t, ems.CylinderReading{Cylinder: 4, Value: 1322}, data.EGTs[3])

	require.Len(t, data.CHTs, 4)
	assert.Equal(t, ems.CylinderReading{Cylinder: 3, Value: 348}, data.CHTs[2])
}

func TestDecodeSampleBlankFields(t *testing.T) {
	p := NewParser()
	require.NoError(t, p.HandleHeader("TIME,RPM,FUELP,EGT1,EGT2"))

	data, err := p.DecodeSample("10:15:06,2385,---,---,1324")
	require.NoError(t, err)

	require.NotNil(t, data.RPM)
	assert.Nil(t, data.FuelPressure, "blank probe should leave the field unreported")
	require.Len(t, data.EGTs, 1)
	assert.Equal(t, ems.CylinderReading{Cylinder: 2, Value: 1324}, data.EGTs[0])
}

func TestDecodeSampleAllBlank(t *testing.T) {
	p := NewParser()
	require.NoError(t, p.HandleHeader("TIME,RPM,EGT1"))

	data, err := p.DecodeSample("10:15:06,---,---")
	require.NoError(t, err)
	assert.True(t, data.Empty())
}

func TestDecodeSampleFieldCountMismatch(t *testing.T) {
	p := NewParser()
	require.NoError(t, p.HandleHeader("TIME,RPM,MAP"))

	_, err := p.DecodeSample("10:15:02,2380")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header has 3 columns")
}

func TestDecodeSampleBadValue(t *testing.T) {
	p := NewParser()
	require.NoError(t, p.HandleHeader("TIME,RPM,MAP"))

	_, err := p.DecodeSample("10:15:02,garbage,24.1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RPM")
}

func TestHandleHeaderReordersColumns(t *testing.T) {
	// Column order comes from the device; nothing should assume a fixed layout.
	p := NewParser()
	require.NoError(t, p.HandleHeader("EGT2,EGT1,RPM,TIME"))

	data, err := p.DecodeSample("1318,1305,2380,10:15:02")
	require.NoError(t, err)

	require.Len(t, data.EGTs, 2)
	assert.Equal(t, 1, data.EGTs[0].Cylinder, "readings should be sorted by cylinder")
	assert.Equal(t, 1305.0, data.EGTs[0].Value)
	assert.Equal(t, 2, data.EGTs[1].Cylinder)
}

func TestHandleHeaderUnknownColumnsIgnored(t *testing.T) {
	p := NewParser()
	require.NoError(t, p.HandleHeader("TIME,RPM,FFLOW,T.TIME,EGT1"))

	data, err := p.DecodeSample("10:15:02,2380,12.4,103.5,1305")
	require.NoError(t, err)

	require.NotNil(t, data.RPM)
	require.Len(t, data.EGTs, 1)
	assert.Nil(t, data.FuelPressure)
}

func TestHandleHeaderBatAlias(t *testing.T) {
	p := NewParser()
	require.NoError(t, p.HandleHeader("TIME,BAT"))

	data, err := p.DecodeSample("10:15:02,13.8")
	require.NoError(t, err)
	require.NotNil(t, data.Volts)
	assert.Equal(t, 13.8, *data.Volts)
}

func TestHandleHeaderCaseInsensitive(t *testing.T) {
	p := NewParser()
	require.NoError(t, p.HandleHeader("time,rpm,egt1"))

	data, err := p.DecodeSample("10:15:02,2380,1305")
	require.NoError(t, err)
	require.NotNil(t, data.RPM)
	require.Len(t, data.EGTs, 1)
}

func TestHandleHeaderReplacesActiveHeader(t *testing.T) {
	p := NewParser()
	require.NoError(t, p.HandleHeader("TIME,RPM"))
	require.NoError(t, p.HandleHeader("TIME,RPM,MAP"))

	// Old two-column rows must no longer decode.
	_, err := p.DecodeSample("10:15:02,2380")
	require.Error(t, err)

	data, err := p.DecodeSample("10:15:02,2380,24.1")
	require.NoError(t, err)
	require.NotNil(t, data.ManifoldPressure)
}

func TestHandleHeaderErrors(t *testing.T) {
	p := NewParser()

	assert.Error(t, p.HandleHeader("TIME"), "single column header")
	assert.Error(t, p.HandleHeader("TIME,,RPM"), "empty column name")
	assert.False(t, p.HasHeader())
}

func TestCylinderSuffix(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		cylinder int
		ok       bool
	}{
		{"EGT1", "EGT", 1, true},
		{"EGT9", "EGT", 9, true},
		{"CHT6", "CHT", 6, true},
		{"EGT", "EGT", 0, false},
		{"EGT0", "EGT", 0, false},
		{"EGTX", "EGT", 0, false},
		{"CHT-1", "CHT", 0, false},
	}

	for _, tt := range tests {
		cyl, ok := cylinderSuffix(tt.name, tt.prefix)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.cylinder, cyl, tt.name)
	}
}
