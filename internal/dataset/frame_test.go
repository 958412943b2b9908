package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wine-quality-service/internal/core/domain"
)

const sample = `fixed acidity,quality,label,flag,sparse
7.4,5,red,true,1
7.8,6,red,false,
11.2,6,white,true,3
`

func TestFrame_DType(t *testing.T) {
	f, err := Read(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, 3, f.Len())

	tests := map[string]string{
		"fixed acidity": DTypeFloat64,
		"quality":       DTypeInt64,
		"label":         DTypeObject,
		"flag":          DTypeBool,
		"sparse":        DTypeFloat64,
	}
	for col, want := range tests {
		got, err := f.DType(col)
		require.NoError(t, err)
		assert.Equal(t, want, got, col)
	}

	_, err = f.DType("missing")
	assert.ErrorIs(t, err, domain.ErrColumnNotFound)
}

func TestFrame_Matrix(t *testing.T) {
	f, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	X, err := f.Matrix([]string{"quality", "fixed acidity"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{5, 7.4}, {6, 7.8}, {6, 11.2}}, X)

	_, err = f.Matrix([]string{"label"})
	assert.Error(t, err)
}

func TestRead_Empty(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrEmptyDataset)
}

func TestTrainTestSplit(t *testing.T) {
	var b strings.Builder
	b.WriteString("x,y\n")
	for i := 0; i < 20; i++ {
		b.WriteString("1,2\n")
	}
	f, err := Read(strings.NewReader(b.String()))
	require.NoError(t, err)

	train, test, err := TrainTestSplit(f, 0.25, 42)
	require.NoError(t, err)
	assert.Equal(t, 15, train.Len())
	assert.Equal(t, 5, test.Len())
	assert.Equal(t, f.Header, test.Header)

	_, _, err = TrainTestSplit(f, 1.5, 42)
	assert.ErrorIs(t, err, domain.ErrInvalidSplitRatio)

	single := NewFrame([]string{"x"}, [][]string{{"1"}})
	_, _, err = TrainTestSplit(single, 0.25, 42)
	assert.ErrorIs(t, err, domain.ErrInsufficientSample)
}

func TestTrainTestSplit_Deterministic(t *testing.T) {
	records := make([][]string, 0, 10)
	for _, v := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		records = append(records, []string{v})
	}
	f := NewFrame([]string{"x"}, records)

	_, first, err := TrainTestSplit(f, 0.3, 7)
	require.NoError(t, err)
	_, second, err := TrainTestSplit(f, 0.3, 7)
	require.NoError(t, err)
	assert.Equal(t, first.Records, second.Records)
}

func TestFrame_WriteCSVRoundTrip(t *testing.T) {
	f, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	require.NoError(t, f.WriteCSV(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "fixed acidity,quality,label,flag,sparse\n"))

	back, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, f.Records, back.Records)
}

func TestFrame_WriteCSVUnwritable(t *testing.T) {
	f, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err = f.WriteCSV(filepath.Join(blocker, "out.csv"))
	assert.Error(t, err)

	err = f.WriteCSV(dir)
	assert.Error(t, err)
}
