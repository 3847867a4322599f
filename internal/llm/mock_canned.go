package llm

import "strings"

// cannedPuzzleResponse answers prompts offline so the pipeline can be run
// end to end without credentials. JSON requests get a content payload for
// the puzzle type named in the prompt; everything else gets a short line.
func cannedPuzzleResponse(req Request) MockResponse {
	var user string
	if len(req.Messages) > 0 {
		user = req.Messages[len(req.Messages)-1].Content
	}
	usage := Usage{InputTokens: len(user) / 4, OutputTokens: 32, TotalTokens: len(user)/4 + 32}

	if !req.JSON {
		return MockResponse{Content: "A fresh puzzle for curious minds", Usage: usage}
	}

	var body string
	switch {
	case strings.Contains(user, "NUMBER_SEQUENCE"):
		body = `{"title":"Counting Up","answer":"12","solution":"Add two each time.","variables":{"subtitle":"Find the next number","sequence":[2,4,6,8,10],"hint":"Look at the gaps","description":"What comes next?","theme":"numbers","brandingText":"Daily numbers"}}`
	case strings.Contains(user, "RHYME_TIME"):
		body = `{"title":"Rhyme Time","answer":"hat","solution":"Hat rhymes with cat.","variables":{"subtitle":"Find the rhyme","rhymeWord":"cat","clue":"You wear it on your head","hint":"Think of clothing","description":"Find a word that rhymes with cat.","theme":"clothes","brandingText":"Daily rhymes"}}`
	case strings.Contains(user, "CONCEPT_CONNECTION"):
		body = `{"title":"Fruit Bowl","answer":"fruit","solution":"All four are fruit.","variables":{"subtitle":"What links them?","words":["apple","banana","orange","grape"],"hint":"Think of a snack","description":"Find the connection.","theme":"food","brandingText":"Daily links"}}`
	default:
		body = `{"title":"Word Guess","answer":"CRANE","solution":"The word is CRANE.","variables":{"subtitle":"Guess the word","hint":"A tall bird","description":"Guess the five letter word.","theme":"birds","brandingText":"Daily words"}}`
	}
	return MockResponse{Content: body, Usage: usage}
}
