// Package parser extracts flashcards from plain-text markdown sources.
//
// A card is a "Q:" line followed by an "A:" line and an optional "C:"
// context line. Each field may continue over following unprefixed lines. A
// new "Q:" or a "---" separator ends the current card.
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Card is a parsed flashcard before it is assigned to a deck.
type Card struct {
	Question string
	Answer   string
	Context  string
}

const (
	questionPrefix = "Q:"
	answerPrefix   = "A:"
	contextPrefix  = "C:"
	separator      = "---"
)

type field int

const (
	none field = iota
	question
	answer
	context
)

// ParseFile reads the file at path and extracts all cards from it.
func ParseFile(path string) ([]Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from r and extracts all cards. Text outside any card is
// ignored; a card without a question is dropped.
func Parse(r io.Reader) ([]Card, error) {
	var (
		cards   []Card
		current Card
		block   []string
		reading = none
	)

	flushBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.Join(block, "\n")
		switch reading {
		case question:
			current.Question = content
		case answer:
			current.Answer = content
		case context:
			current.Context = content
		}
		block = nil
	}

	finishCard := func() {
		flushBlock()
		if current.Question != "" {
			cards = append(cards, current)
		}
		current = Card{}
		reading = none
	}

	startField := func(f field, line, prefix string) {
		flushBlock()
		reading = f
		content := strings.TrimPrefix(line, prefix)
		content = strings.TrimPrefix(content, " ")
		block = append(block, content)
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == separator:
			finishCard()
		case strings.HasPrefix(line, questionPrefix):
			// A new question always starts a new card.
			if reading != none {
				finishCard()
			}
			startField(question, line, questionPrefix)
		case strings.HasPrefix(line, answerPrefix):
			startField(answer, line, answerPrefix)
		case strings.HasPrefix(line, contextPrefix):
			startField(context, line, contextPrefix)
		case reading != none:
			block = append(block, line)
		}
	}
	finishCard()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}
