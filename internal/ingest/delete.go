package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"otter.camp/lingot/internal/store"
)

// DeleteResult reports what the cascade removed.
type DeleteResult struct {
	DocumentID       uuid.UUID `json:"document_id"`
	SentencesDeleted int       `json:"sentences_deleted"`
	WordsDeleted     int       `json:"words_deleted"`
	AudioRemoved     int       `json:"audio_removed"`
}

// DeleteDocument removes a document and exactly those sentences and words
// that nothing else references anymore. The cascade works on an explicit
// reachability check: a sentence survives while any other document links to
// it, and a word survives while any surviving sentence links to it.
//
// Order matters: words go first (their reachability check reads word-order
// rows that must still exist), then sentences, then the uploaded file, then
// the document row. Deleting the same document twice is not supported.
func (s *Service) DeleteDocument(ctx context.Context, documentID uuid.UUID) (*DeleteResult, error) {
	doc, err := s.documents.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	sentenceLinks, err := s.links.SentenceOrdersForDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("load sentence links: %w", err)
	}

	// Step 1+2: sentences owned only by this document.
	sentencesToDelete := make(map[uuid.UUID]struct{})
	for _, link := range sentenceLinks {
		if _, seen := sentencesToDelete[link.SentenceID]; seen {
			continue
		}
		docIDs, err := s.links.DocumentIDsForSentence(ctx, link.SentenceID)
		if err != nil {
			return nil, fmt.Errorf("check sentence references: %w", err)
		}
		shared := false
		for _, id := range docIDs {
			if id != documentID {
				shared = true
				break
			}
		}
		if !shared {
			sentencesToDelete[link.SentenceID] = struct{}{}
		}
	}

	// Step 3: words only reachable from the doomed sentences.
	wordsToDelete := make(map[uuid.UUID]struct{})
	for sentenceID := range sentencesToDelete {
		wordLinks, err := s.links.WordOrdersForSentence(ctx, sentenceID)
		if err != nil {
			return nil, fmt.Errorf("load word links: %w", err)
		}
		for _, link := range wordLinks {
			if _, seen := wordsToDelete[link.WordID]; seen {
				continue
			}
			sentenceIDs, err := s.links.SentenceIDsForWord(ctx, link.WordID)
			if err != nil {
				return nil, fmt.Errorf("check word references: %w", err)
			}
			orphaned := true
			for _, id := range sentenceIDs {
				if _, doomed := sentencesToDelete[id]; !doomed {
					orphaned = false
					break
				}
			}
			if orphaned {
				wordsToDelete[link.WordID] = struct{}{}
			}
		}
	}

	result := &DeleteResult{DocumentID: documentID}

	// Step 4: words, one by one, audio first.
	for wordID := range wordsToDelete {
		if err := s.deleteWord(ctx, wordID, result); err != nil {
			return result, err
		}
	}

	// Step 5: sentences, one by one, audio first.
	for sentenceID := range sentencesToDelete {
		sentence, err := s.sentences.GetSentence(ctx, sentenceID)
		if err != nil {
			return result, fmt.Errorf("load sentence: %w", err)
		}
		if sentence.AudioFile != "" {
			if err := s.media.Remove(sentence.AudioFile); err != nil {
				return result, fmt.Errorf("remove sentence audio: %w", err)
			}
			result.AudioRemoved++
		}
		if err := s.links.DeleteWordOrdersForSentence(ctx, sentenceID); err != nil {
			return result, fmt.Errorf("remove word links: %w", err)
		}
		if err := s.sentences.DeleteSentence(ctx, sentenceID); err != nil {
			return result, fmt.Errorf("delete sentence: %w", err)
		}
		result.SentencesDeleted++
	}

	// Step 6: the document's own file, then its row and links.
	if err := s.media.Remove(doc.FilePath); err != nil {
		return result, fmt.Errorf("remove document file: %w", err)
	}
	if err := s.links.DeleteSentenceOrdersForDocument(ctx, documentID); err != nil {
		return result, fmt.Errorf("remove sentence links: %w", err)
	}
	if err := s.documents.DeleteDocument(ctx, documentID); err != nil {
		return result, fmt.Errorf("delete document: %w", err)
	}

	s.logger.Info().
		Str("document_id", documentID.String()).
		Int("sentences_deleted", result.SentencesDeleted).
		Int("words_deleted", result.WordsDeleted).
		Msg("document deleted")

	return result, nil
}

func (s *Service) deleteWord(ctx context.Context, wordID uuid.UUID, result *DeleteResult) error {
	word, err := s.words.GetWord(ctx, wordID)
	if err != nil {
		return fmt.Errorf("load word: %w", err)
	}

	if word.AudioFile != "" {
		if err := s.media.Remove(word.AudioFile); err != nil {
			return fmt.Errorf("remove word audio: %w", err)
		}
		result.AudioRemoved++
	}

	// A word's conjugations (and their trackers) go with it.
	conjugations, err := s.conjugations.ListConjugationsForWord(ctx, wordID)
	if err != nil {
		return fmt.Errorf("load conjugations: %w", err)
	}
	for _, conjugation := range conjugations {
		if err := s.conjugations.DeleteConjugation(ctx, conjugation.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("delete conjugation: %w", err)
		}
	}

	if err := s.words.DeleteWord(ctx, wordID); err != nil {
		return fmt.Errorf("delete word: %w", err)
	}
	result.WordsDeleted++
	return nil
}
