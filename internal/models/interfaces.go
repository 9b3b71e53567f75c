package models

import "context"

// IndexWriter is the part of the search engine used for uploads
type IndexWriter interface {
	IndexExists(ctx context.Context, index string) (bool, error)
	CreateIndex(ctx context.Context, index string) error
	// IndexDocument fails with errorwrapper.ErrIndexNotFound or errorwrapper.ErrConnectionFailure
	IndexDocument(ctx context.Context, index string, doc *Document) error
}

// Searcher is the part of the search engine used for downloads
type Searcher interface {
	Search(ctx context.Context, index string, query SearchQuery) (*SearchResult, error)
}

// SearchEngine is the full engine capability
type SearchEngine interface {
	IndexWriter
	Searcher
	Ping(ctx context.Context) bool
}
