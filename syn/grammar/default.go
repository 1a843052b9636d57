package grammar

import (
	"bytes"
	_ "embed"
	"sync"
)

//go:embed data/english.txt
var englishCorpus []byte

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns the table compiled from the bundled English corpus. The
// table is shared; callers that train it further should Merge it into a
// fresh table first.
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, _, defaultErr = CompileCorpus(bytes.NewReader(englishCorpus))
	})
	return defaultTable, defaultErr
}
