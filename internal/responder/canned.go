package responder

import "fmt"

// Greeting is the first bot message of every session.
const Greeting = "Hey there, music maker! I'm SYNTHIA, your AI music companion. " +
	"I can help you create amazing songs, chat about music, or just vibe together. " +
	"What kind of tune are you feeling today?"

// Replies are the canned chat answers. One is picked uniformly per message.
var Replies = []string{
	"That's a fantastic idea! I'm thinking we could blend some synthwave vibes with a touch of lo-fi. Let me cook something up...",
	"Oh, I love that genre! The bass lines in that style are absolutely electric. What mood should we go for?",
	"Interesting choice! I've been analyzing thousands of tracks in that style. Should we add some vocal harmonies?",
	"You've got great taste! Let me generate something special. This might take a moment while I compose the perfect arrangement.",
	"That's exactly what I was thinking! The neural networks are firing up. Get ready for something awesome!",
	"I can definitely work with that! What tempo are you feeling? Something chill or more upbeat?",
}

// QuickPrompts are one-key chat suggestions.
var QuickPrompts = []string{
	"Create an upbeat pop song",
	"Make something chill and lo-fi",
	"I want synthwave vibes",
	"Something epic and cinematic",
}

// SongAnnouncement is the bot message posted when a song is ready.
func SongAnnouncement(title, genre string) string {
	return fmt.Sprintf("I've created \"%s\" in the %s style! Hit play to hear your new track. What do you think?", title, genre)
}
