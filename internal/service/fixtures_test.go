package service

import (
	"fmt"

	"wiki-quiz/internal/domain"
)

var difficulties = []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard}

func generatedQuiz(questions int) *domain.GeneratedQuiz {
	out := &domain.GeneratedQuiz{
		KeyEntities:   map[string][]string{"people": {"Alan Turing", "Alonzo Church"}, "locations": {"Bletchley Park"}},
		Sections:      []string{"Early life", "Cryptanalysis", "Legacy"},
		RelatedTopics: []string{"Enigma machine", "Turing test", "Lambda calculus"},
	}
	for i := 0; i < questions; i++ {
		options := []string{
			fmt.Sprintf("q%d option one", i),
			fmt.Sprintf("q%d option two", i),
			fmt.Sprintf("q%d option three", i),
			fmt.Sprintf("q%d option four", i),
		}
		out.Quiz = append(out.Quiz, domain.GeneratedQuestion{
			Question:    fmt.Sprintf("Question number %d?", i),
			Options:     options,
			Answer:      options[i%4],
			Difficulty:  difficulties[i%3],
			Explanation: fmt.Sprintf("Explanation %d", i),
		})
	}
	return out
}

func combinedArticle() *domain.CombinedArticle {
	return &domain.CombinedArticle{
		Title:         "Alan Turing & Enigma machine",
		Summary:       "**Alan Turing**: English mathematician.\n\n**Enigma machine**: Cipher device.",
		Body:          "--- ARTICLE: Alan Turing ---\nbody one\n\n--- ARTICLE: Enigma machine ---\nbody two",
		URLs:          []string{"https://en.wikipedia.org/wiki/Alan_Turing", "https://en.wikipedia.org/wiki/Enigma_machine"},
		SucceededURLs: []string{"https://en.wikipedia.org/wiki/Alan_Turing", "https://en.wikipedia.org/wiki/Enigma_machine"},
	}
}
