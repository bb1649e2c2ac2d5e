package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/conorfennell/ngurra/internal/collection"
	"github.com/conorfennell/ngurra/internal/config"
	"github.com/conorfennell/ngurra/internal/deckimport"
	"github.com/conorfennell/ngurra/internal/scheduler"
)

func main() {
	defaults := config.Default()

	flags := pflag.NewFlagSet("ngurra", pflag.ExitOnError)
	configPath := flags.String("config", "", "Path to a YAML config file")
	flags.String("db", defaults.DB, "Path to the SQLite database file")
	flags.String("repos-dir", defaults.ReposDir, "Directory where git sources are mirrored")
	addSource := flags.String("add-source", "", "Register a card source (local path or git URL) as a new deck")
	runImport := flags.Bool("import", false, "Reconcile all registered sources into their decks")
	list := flags.Bool("list", false, "List decks with their study counts")
	study := flags.Int64("study", 0, "Study the deck with the given ID")
	flags.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	col, err := collection.Open(cfg.DB, cfg.StateContext())
	if err != nil {
		slog.Error("Failed to open collection", "db", cfg.DB, "error", err)
		os.Exit(1)
	}
	defer col.Close()

	switch {
	case *addSource != "":
		deck, err := deckimport.AddSource(col.DB(), *addSource)
		if err != nil {
			slog.Error("Failed to add source", "path", *addSource, "error", err)
			os.Exit(1)
		}
		fmt.Printf("Added deck %q (id %d). Run with --import to load its cards.\n", deck.Name, deck.ID)

	case *runImport:
		if err := deckimport.Run(col.DB(), cfg.ReposDir); err != nil {
			slog.Error("Import failed", "error", err)
			os.Exit(1)
		}

	case *study != 0:
		if err := studyDeck(col, *study); err != nil {
			slog.Error("Study session failed", "deck", *study, "error", err)
			os.Exit(1)
		}

	case *list:
		fallthrough
	default:
		if err := listDecks(col); err != nil {
			slog.Error("Failed to list decks", "error", err)
			os.Exit(1)
		}
	}
}

func listDecks(col *collection.Collection) error {
	decks, err := col.ListDecksWithStats()
	if err != nil {
		return err
	}
	if len(decks) == 0 {
		fmt.Println("No decks yet. Add a source with --add-source <path/or/url.git>")
		return nil
	}

	fmt.Printf("%-4s %-30s %6s %9s %6s\n", "ID", "DECK", "NEW", "LEARNING", "DUE")
	for _, deck := range decks {
		fmt.Printf("%-4d %-30s %6d %9d %6d\n",
			deck.ID, deck.Name, deck.Stats.New, deck.Stats.Learning, deck.Stats.Due)
	}
	return nil
}

// studyDeck runs one interactive session over a deck's queue. Cards answered
// Again are put back at the far end of the queue.
func studyDeck(col *collection.Collection, deckID int64) error {
	deck, err := col.DB().GetDeck(deckID)
	if err != nil {
		return err
	}

	queue, err := col.BuildQueue(deckID)
	if err != nil {
		return err
	}
	stats := queue.Stats()
	fmt.Printf("Studying %q: %d due, %d learning, %d new\n\n",
		deck.Name, stats.Review, stats.Learning, stats.New)

	reader := bufio.NewReader(os.Stdin)
	for {
		cardID, ok := queue.PopBack()
		if !ok {
			fmt.Println("Done for today.")
			return nil
		}

		card, err := col.DB().GetCard(cardID)
		if err != nil {
			return err
		}

		fmt.Printf("Q: %s\n", card.Question)
		fmt.Print("(press enter to reveal) ")
		if _, err := reader.ReadString('\n'); err != nil {
			return nil
		}
		fmt.Printf("A: %s\n", card.Answer)

		grade, quit, err := readGrade(reader)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}

		if err := col.AnswerCard(cardID, grade); err != nil {
			return err
		}
		if grade == scheduler.Again {
			queue.Requeue(cardID)
		}
		fmt.Println()
	}
}

func readGrade(reader *bufio.Reader) (scheduler.Grade, bool, error) {
	for {
		fmt.Print("Grade [1=again 2=hard 3=good 4=easy, q=quit]: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0, true, nil
		}
		switch strings.TrimSpace(line) {
		case "1":
			return scheduler.Again, false, nil
		case "2":
			return scheduler.Hard, false, nil
		case "3":
			return scheduler.Good, false, nil
		case "4":
			return scheduler.Easy, false, nil
		case "q":
			return 0, true, nil
		}
	}
}
