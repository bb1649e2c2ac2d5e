// Package deckimport reconciles registered card sources into decks. Each
// source is a directory (or git repository) of markdown files; its cards are
// matched to stored cards by content fingerprint, so re-running an import
// only inserts what is new and removes what has disappeared upstream.
package deckimport

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/conorfennell/ngurra/internal/domain"
	"github.com/conorfennell/ngurra/internal/fingerprint"
	"github.com/conorfennell/ngurra/internal/gitsource"
	"github.com/conorfennell/ngurra/internal/parser"
	"github.com/conorfennell/ngurra/internal/storage"
)

// AddSource registers a new card source and creates the deck it feeds. Git
// URLs are recognized by their shape; anything else is treated as a local
// directory.
func AddSource(db *storage.DB, path string) (*domain.Deck, error) {
	sourceType := "local"
	if isGitURL(path) {
		sourceType = "git"
	}

	deck := domain.NewDeck(deckNameForPath(path))
	if err := db.CreateDeck(deck); err != nil {
		return nil, fmt.Errorf("failed to create deck for source %s: %w", path, err)
	}

	if _, err := db.InsertSource(path, sourceType, deck.ID); err != nil {
		return nil, err
	}

	slog.Info("Added source", "path", path, "type", sourceType, "deck", deck.Name)
	return deck, nil
}

// Run reconciles every registered source into its deck. Git sources are
// mirrored under reposDir first. A failing source is logged and skipped so
// one broken repository cannot block the rest.
func Run(db *storage.DB, reposDir string) error {
	sources, err := db.GetAllSources()
	if err != nil {
		return fmt.Errorf("failed to get sources: %w", err)
	}

	if len(sources) == 0 {
		slog.Info("No sources configured. Add one with --add-source <path/or/url.git>")
		return nil
	}

	if err := os.MkdirAll(reposDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create repos directory %s: %w", reposDir, err)
	}

	for _, source := range sources {
		slog.Info("Importing source", "id", source.ID, "type", source.Type, "path", source.Path)

		dir := source.Path
		if source.Type == "git" {
			localRepoPath, err := gitURLToLocalPath(reposDir, source.Path)
			if err != nil {
				slog.Error("Error determining local path for git repo", "url", source.Path, "error", err)
				continue
			}
			if err := gitsource.Sync(source.Path, localRepoPath); err != nil {
				slog.Error("Error syncing git repo", "url", source.Path, "error", err)
				continue
			}
			dir = localRepoPath
		}

		if err := reconcileSource(db, &source, dir); err != nil {
			slog.Error("Error reconciling source", "id", source.ID, "error", err)
		}
	}
	return nil
}

// reconcileSource walks dir for markdown files and brings the source's deck
// in line with their contents: unseen fingerprints become new cards, stored
// fingerprints no longer present upstream are deleted.
func reconcileSource(db *storage.DB, source *storage.Source, dir string) error {
	existing, err := db.CardFingerprints(source.DeckID)
	if err != nil {
		return err
	}

	var (
		parsed      int
		inserted    int
		parseErrors []error
	)
	found := make(map[string]bool)

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		fileCards, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			parseErrors = append(parseErrors, fmt.Errorf("parsing %s: %w", path, parseErr))
		}
		for _, parsedCard := range fileCards {
			parsed++
			sum := fingerprint.Sum(parsedCard)
			found[sum] = true

			if _, ok := existing[sum]; ok {
				continue
			}

			card := domain.NewCard(source.DeckID, parsedCard.Question, parsedCard.Answer)
			card.Fingerprint = sum
			card.Data.CustomData = parsedCard.Context
			if insertErr := db.CreateCard(card); insertErr != nil {
				parseErrors = append(parseErrors, fmt.Errorf("inserting card %s: %w", sum, insertErr))
				continue
			}
			existing[sum] = card.ID
			inserted++
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("failed to walk directory %s: %w", dir, walkErr)
	}

	var orphaned int
	for sum, cardID := range existing {
		if found[sum] {
			continue
		}
		slog.Info("Orphaned card, deleting", "fingerprint", sum)
		if err := db.DeleteCard(cardID); err != nil {
			slog.Warn("Failed to delete orphaned card", "fingerprint", sum, "error", err)
			continue
		}
		orphaned++
	}

	if err := db.UpdateSourceLastScanned(source.ID); err != nil {
		slog.Warn("Failed to update last scanned for source", "source_id", source.ID, "error", err)
	}

	slog.Info("Reconciliation complete",
		"path", dir,
		"parsed_cards", parsed,
		"inserted", inserted,
		"orphaned_deleted", orphaned,
		"errors", len(parseErrors),
	)
	for _, err := range parseErrors {
		slog.Warn("Import issue", "error", err)
	}
	return nil
}

func isGitURL(path string) bool {
	return strings.HasSuffix(path, ".git") ||
		strings.HasPrefix(path, "git@") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "http://")
}

func deckNameForPath(path string) string {
	base := filepath.Base(strings.TrimSuffix(path, ".git"))
	if base == "." || base == "/" || base == "" {
		return "imported"
	}
	return base
}

func gitURLToLocalPath(baseDir, repoURL string) (string, error) {
	parsedURL, err := url.Parse(repoURL)
	if err != nil || (parsedURL.Scheme != "https" && parsedURL.Scheme != "http") {
		// scp-like syntax, e.g. git@github.com:user/repo.git
		if strings.Contains(repoURL, "@") {
			parts := strings.Split(repoURL, ":")
			if len(parts) == 2 {
				hostAndUser := strings.Split(parts[0], "@")
				if len(hostAndUser) == 2 {
					host := hostAndUser[1]
					repoPath := strings.TrimSuffix(parts[1], ".git")
					return filepath.Join(baseDir, host, repoPath), nil
				}
			}
		}
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}

	sanitizedPath := strings.TrimSuffix(parsedURL.Path, ".git")
	return filepath.Join(baseDir, parsedURL.Host, sanitizedPath), nil
}
