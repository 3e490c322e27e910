package gen

import "fmt"

const puzzleWordPrompt = `Generate ONE random common 5-letter English word that would be good for a word-guessing game. Respond with ONLY the word in UPPERCASE, nothing else. Make it a real word that most people would know. Examples: HOUSE, BREAD, STONE, CLOUD, MUSIC`

func secretPrompt(category string) string {
	return fmt.Sprintf(`You are playing a guessing game. Think of ONE specific %s that exists in real life. Just respond with ONLY the name of that %s, nothing else. Make it something well-known but not too easy. Examples for food: "Pizza", for animal: "Dolphin", for movie: "The Matrix", for place: "Paris".`, category, category)
}

func answerPrompt(category, secret, question string) string {
	return fmt.Sprintf(`You are playing 20 questions. Your secret %s is "%s". The player asked: "%s".

Rules:
1. Answer with ONLY "Yes" or "No" first
2. Then ask a simple yes/no question to help narrow down what THEY are thinking of in the %s category
3. Keep it fun and conversational

Format: "Yes/No + your question"
Example: "Yes! Is yours something people eat for breakfast?"`, category, secret, question, category)
}

func verdictPrompt(secret, guess string) string {
	return fmt.Sprintf(`The secret word is "%s". The player guessed: "%s".

Are these the same thing or very similar? Consider variations in spelling, synonyms, and obvious matches.
Answer ONLY with "CORRECT" or provide a hint like "Close! But not quite."`, secret, guess)
}
