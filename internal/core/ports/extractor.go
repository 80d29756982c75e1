package ports

// Extractor unpacks archive contents into a directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=extractor.go -destination=mocks/mock_extractor.go -package=mocks
type Extractor interface {
	// Extract unpacks the archive at src into dest. Entries for which skip
	// returns true are not extracted.
	Extract(src, dest string, skip func(name string) bool) error
}
