package services

import (
	"strings"
)

type responseRule struct {
	keywords []string
	reply    string
}

// LocalResponder answers from a fixed keyword table. It is used whenever the
// external generator is unavailable and always returns non-empty text.
type LocalResponder struct {
	rules    []responseRule
	fallback string
}

func NewLocalResponder() *LocalResponder {
	return &LocalResponder{
		rules: []responseRule{
			{
				keywords: []string{"hello", "hi ", "hey", "good morning", "good evening"},
				reply:    "Hi! I can help you plan study sessions, find or organize study groups, and prepare for exams. What are you working on?",
			},
			{
				keywords: []string{"exam", "test", "midterm", "final"},
				reply:    "For exam prep, start with a list of topics and rate your confidence on each. Spend most of your time on the weakest ones, use practice problems under timed conditions, and schedule a review session with your group two or three days before the exam.",
			},
			{
				keywords: []string{"flashcard", "memorize", "remember", "vocab"},
				reply:    "Flashcards work best with spaced repetition: review new cards daily, then push well-known cards to every few days. Keep one fact per card and say the answer out loud before flipping.",
			},
			{
				keywords: []string{"focus", "distract", "procrastinat", "motivat"},
				reply:    "Try the Pomodoro technique: 25 minutes of focused work, then a 5 minute break, with a longer break every four rounds. Silence notifications and pick one concrete task before you start each round.",
			},
			{
				keywords: []string{"schedule", "plan", "calendar", "time"},
				reply:    "Block fixed study slots in your calendar the same way you would a class. Short daily sessions beat one long weekly cram, and logging each session keeps your streak and weekly hours up to date.",
			},
			{
				keywords: []string{"group", "partner", "together", "join"},
				reply:    "Study groups work well at 3 to 6 people with a clear agenda for each meeting. Use the group filters to find groups for your course, or create one with a regular weekly time slot and invite classmates.",
			},
			{
				keywords: []string{"math", "calculus", "algebra", "equation"},
				reply:    "For math, work problems by hand before checking solutions, and write down why each step is valid. When stuck, go back to the definition or a simpler special case.",
			},
			{
				keywords: []string{"essay", "write", "writing", "paper"},
				reply:    "Outline the argument first: thesis, three supporting points, and the evidence for each. Write a rough draft quickly, then revise for structure before polishing sentences.",
			},
			{
				keywords: []string{"stress", "anxious", "tired", "overwhelm", "burnout"},
				reply:    "It is normal to feel that way during busy weeks. Break the work into small steps, protect your sleep, and take real breaks. Talking it through with your study group can help too.",
			},
			{
				keywords: []string{"goal", "progress", "streak", "hours"},
				reply:    "Set goals with a concrete target in hours and a deadline, then log sessions as you go. Your stats page shows weekly and monthly hours so you can see whether you are on track.",
			},
		},
		fallback: "I'm in offline mode right now, so my answers are limited. I can still share tips on exam prep, study schedules, focus, flashcards and study groups. Try asking about one of those.",
	}
}

// Respond picks the first rule with a keyword contained in message.
func (r *LocalResponder) Respond(message string) string {
	text := " " + strings.ToLower(message) + " "
	for _, rule := range r.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.reply
			}
		}
	}
	return r.fallback
}
