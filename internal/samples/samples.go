// Package samples bundles a handful of known question/answer cases used
// by the `truthy samples` command to exercise the full pipeline.
package samples

import "github.com/truthylabs/truthy/internal/model"

// Case pairs a request with the outcome it is expected to produce.
type Case struct {
	Name        string
	Description string
	Request     model.Request
	// WantHallucinated is the expected top-level verdict.
	WantHallucinated bool
	// WantTypes lists taxonomy codes a correct classification should
	// include (any classifier tier). Empty means no specific code expected.
	WantTypes []string
}

// All returns the built-in cases in a stable order.
func All() []Case {
	return []Case{
		{
			Name:        "inception-director",
			Description: "Wrong director attributed to a film described in the paragraph",
			Request: model.Request{
				Paragraph: "Inception is a 2010 science fiction action film written and directed by Christopher Nolan, who also produced it with Emma Thomas, his wife. The film stars Leonardo DiCaprio as a professional thief who steals information by infiltrating the subconscious of his targets.",
				Question:  "Who directed the movie Inception?",
				Answer:    "The movie Inception was directed by Steven Spielberg.",
			},
			WantHallucinated: true,
			WantTypes:        []string{"1A"},
		},
		{
			Name:        "inception-director-correct",
			Description: "Paraphrased but correct answer",
			Request: model.Request{
				Paragraph: "Inception is a 2010 science fiction action film written and directed by Christopher Nolan, who also produced it with Emma Thomas, his wife. The film stars Leonardo DiCaprio as a professional thief who steals information by infiltrating the subconscious of his targets.",
				Question:  "Who directed the movie Inception?",
				Answer:    "Christopher Nolan was the director of Inception, and he also wrote it.",
			},
			WantHallucinated: false,
		},
		{
			Name:        "1984-intent",
			Description: "Answer inverts the intent of the source text",
			Request: model.Request{
				Paragraph: "George Orwell's novel 1984 depicts a dystopian society under total surveillance, where the government controls information and suppresses individual thought. The book is widely read as a warning against totalitarianism.",
				Question:  "What does the novel 1984 depict?",
				Answer:    "The novel 1984 promotes a society under total surveillance where the government controls information, presenting it as an ideal model.",
			},
			WantHallucinated: true,
			WantTypes:        []string{"2A"},
		},
		{
			Name:        "tesla-founder",
			Description: "Open-domain question answered with a fabricated founder",
			Request: model.Request{
				Question: "Who founded Tesla Motors in 2003?",
				Answer:   "Tesla Motors was founded in 2003 by Elon Musk alone, who came up with the idea after selling PayPal.",
			},
			WantHallucinated: true,
			WantTypes:        []string{"1A"},
		},
		{
			Name:        "apple-headquarters",
			Description: "Relation between real entities is fabricated",
			Request: model.Request{
				Paragraph: "Apple Inc. is an American multinational technology company headquartered in Cupertino, California. The company was founded by Steve Jobs, Steve Wozniak, and Ronald Wayne in April 1976.",
				Question:  "Where is Apple headquartered and who founded it?",
				Answer:    "Apple is headquartered in Seattle, Washington, and was founded by Steve Jobs and Bill Gates in 1976.",
			},
			WantHallucinated: true,
		},
	}
}
