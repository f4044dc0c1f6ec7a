package ports

import (
	"gotyche/domain/dataset"
)

// DatasetReader provides the tabular input of a run. Implementations fully
// materialize the data; nothing downstream performs I/O.
type DatasetReader interface {
	ReadDataset() (*dataset.Dataset, error)
}
