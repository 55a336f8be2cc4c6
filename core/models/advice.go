package models

// ExcludeAdvice partitions the exclude catalog against a script's imports.
// Both lists keep catalog order.
type ExcludeAdvice struct {
	Safe  []string
	InUse []string
}
