package search

import (
	"context"
	"errors"
	"path"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/puzpuzpuz/xsync"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/logger"
	"github.com/versestream/backend/pkg/xcontext"
)

const VerseDoc = "verse"

const rebuildBatchSize = 500

type VerseData struct {
	Reference string
	Text      string
	Book      string
}

type Index interface {
	IndexVerse(id int64, data VerseData) error
	SearchVerses(query string, offset, limit int) ([]int64, uint64, error)
	Close()
}

type bleveIndex struct {
	logger   logger.Logger
	indexDir string
	indexes  *xsync.MapOf[string, bleve.Index]
}

// NewBleveIndex keeps indexes under the configured directory, or in memory
// when no directory is configured.
func NewBleveIndex(ctx context.Context) *bleveIndex {
	return &bleveIndex{
		logger:   xcontext.Logger(ctx),
		indexDir: xcontext.Configs(ctx).Search.IndexDir,
		indexes:  xsync.NewMapOf[bleve.Index](),
	}
}

func (i *bleveIndex) IndexVerse(id int64, data VerseData) error {
	return i.index(VerseDoc, strconv.FormatInt(id, 10), data)
}

func (i *bleveIndex) SearchVerses(query string, offset, limit int) ([]int64, uint64, error) {
	ids, total, err := i.search(VerseDoc, query, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		value, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			i.logger.Warnf("Invalid verse id in index: %s", id)
			continue
		}

		result = append(result, value)
	}

	return result, total, nil
}

// OnVerseRotated indexes every verse published by the rotator.
func (i *bleveIndex) OnVerseRotated(ctx context.Context, verse model.Verse) error {
	if verse.ID == 0 {
		return nil
	}

	return i.IndexVerse(verse.ID, VerseData{Reference: verse.Ref, Text: verse.Text, Book: verse.Book})
}

// IndexStoredVerses indexes every verse already in the store.
func (i *bleveIndex) IndexStoredVerses(ctx context.Context, verseRepo repository.VerseRepository) error {
	count := 0
	for offset := 0; ; offset += rebuildBatchSize {
		verses, err := verseRepo.GetList(ctx, offset, rebuildBatchSize)
		if err != nil {
			return err
		}

		for _, v := range verses {
			err := i.IndexVerse(v.ID, VerseData{Reference: v.Reference, Text: v.Text, Book: v.Book})
			if err != nil {
				return err
			}
		}

		count += len(verses)
		if len(verses) < rebuildBatchSize {
			break
		}
	}

	i.logger.Infof("Indexed %d stored verses", count)
	return nil
}

func (i *bleveIndex) Close() {
	i.logger.Infof("Closing all indexers...")

	i.indexes.Range(func(document string, index bleve.Index) bool {
		if err := index.Close(); err != nil {
			i.logger.Errorf("Cannot close indexer %s: %v", document, err)
		}

		return true
	})

	i.logger.Infof("Closing all indexers...done")
}

func (i *bleveIndex) index(document, id string, data any) error {
	index, err := i.getIndexByDocument(document)
	if err != nil {
		return err
	}

	return index.Index(id, data)
}

func (i *bleveIndex) search(document, query string, offset, limit int) ([]string, uint64, error) {
	index, err := i.getIndexByDocument(document)
	if err != nil {
		return nil, 0, err
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(query), limit, offset, false)
	searchResults, err := index.Search(req)
	if err != nil {
		return nil, 0, err
	}

	ids := []string{}
	for _, match := range searchResults.Hits {
		ids = append(ids, match.ID)
	}

	return ids, searchResults.Total, nil
}

func (i *bleveIndex) getIndexByDocument(document string) (bleve.Index, error) {
	index, ok := i.indexes.Load(document)
	if ok {
		return index, nil
	}

	index, err := i.openIndex(document)
	if err != nil {
		return nil, err
	}

	actual, loaded := i.indexes.LoadOrStore(document, index)
	if loaded {
		// Another caller opened it first.
		index.Close()
		return actual, nil
	}

	i.logger.Infof("A new document index is added: %s", document)
	return index, nil
}

func (i *bleveIndex) openIndex(document string) (bleve.Index, error) {
	if i.indexDir == "" {
		return bleve.NewMemOnly(bleve.NewIndexMapping())
	}

	indexPath := path.Join(i.indexDir, document)
	index, err := bleve.New(indexPath, bleve.NewIndexMapping())
	if err == nil {
		return index, nil
	}

	if !errors.Is(err, bleve.ErrorIndexPathExists) {
		return nil, err
	}

	return bleve.Open(indexPath)
}
