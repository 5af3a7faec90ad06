package domain

import "math"

// Summary is the result of a finished game, handed to the results screen.
type Summary struct {
	Score    int      `json:"score"`
	Total    int      `json:"total"`
	Category Category `json:"category"`
}

// Feedback is the qualitative verdict shown next to the score.
type Feedback struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Stars   int    `json:"stars"`
}

type feedbackTier struct {
	min int
	Feedback
}

// tiers are ordered from best to worst; the first tier whose threshold is met wins.
var tiers = []feedbackTier{
	{90, Feedback{Title: "Supreme master!", Message: "You are a true expert on this subject", Stars: 5}},
	{80, Feedback{Title: "Excellent!", Message: "Your knowledge is very solid", Stars: 4}},
	{70, Feedback{Title: "Very good!", Message: "A pretty good result", Stars: 3}},
	{60, Feedback{Title: "Good!", Message: "You know the topic, but there is room to improve", Stars: 2}},
	{50, Feedback{Title: "Passed", Message: "A decent start, keep practicing", Stars: 1}},
	{0, Feedback{Title: "Keep trying!", Message: "Practice makes perfect", Stars: 0}},
}

// Percentage is score over total rounded to the nearest whole percent.
func (s Summary) Percentage() int {
	if s.Total <= 0 {
		return 0
	}
	return int(math.Round(float64(s.Score) / float64(s.Total) * 100))
}

// Incorrect counts answers that did not score, including expired timers.
func (s Summary) Incorrect() int {
	return s.Total - s.Score
}

// Feedback picks the verdict tier for the percentage.
func (s Summary) Feedback() Feedback {
	pct := s.Percentage()
	for _, tier := range tiers {
		if pct >= tier.min {
			return tier.Feedback
		}
	}
	return tiers[len(tiers)-1].Feedback
}

// Stars is the 0..5 rating shown on the results screen.
func (s Summary) Stars() int {
	return s.Feedback().Stars
}
