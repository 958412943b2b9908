package dataset

import (
	"math"
	"math/rand"

	"wine-quality-service/internal/core/domain"
)

// TrainTestSplit shuffles rows with a seeded source and holds out testSize of them.
// The same seed always yields the same split.
func TrainTestSplit(f *Frame, testSize float64, seed int64) (train, test *Frame, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, domain.ErrInvalidSplitRatio
	}
	n := f.Len()
	nTest := int(math.Ceil(float64(n) * testSize))
	if n < 2 || nTest >= n {
		return nil, nil, domain.ErrInsufficientSample
	}

	indices := rand.New(rand.NewSource(seed)).Perm(n)
	return f.Subset(indices[nTest:]), f.Subset(indices[:nTest]), nil
}
