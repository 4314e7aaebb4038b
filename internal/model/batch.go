package model

// Batch is the corpus persistence unit: the parsed cases of one contiguous
// sequenceId range. The JSON shape is an external contract consumed by
// downstream database loaders; field order and naming must not change.
type Batch struct {
	BatchID       int    `json:"batchId"`
	SequenceRange string `json:"sequenceRange"`
	TotalCases    int    `json:"totalCases"`
	Cases         []Case `json:"cases"`
}
