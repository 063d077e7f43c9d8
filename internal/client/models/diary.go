package models

// QuickEmoji is a one-tap mood shortcut. Custom marks user-added entries.
type QuickEmoji struct {
	Emoji  string `json:"emoji"`
	Label  string `json:"label"`
	Custom bool   `json:"custom,omitempty"`
}

type DiaryEntry struct {
	ID        string   `json:"id,omitempty" yaml:"id,omitempty"`
	Date      string   `json:"date" yaml:"date"`
	MoodEmoji string   `json:"moodEmoji" yaml:"moodEmoji"`
	MoodLabel string   `json:"moodLabel" yaml:"moodLabel"`
	Content   string   `json:"content" yaml:"content"`
	Tags      []string `json:"tags" yaml:"tags"`
	Image     *string  `json:"image" yaml:"image"`
}

type Diary struct {
	QuickEmojis []QuickEmoji `json:"quickEmojis"`
	Entries     []DiaryEntry `json:"entries"`
}

// ImageUpload is the backend's answer to a presign request: the object key to
// store on the entry and the URL to PUT the bytes to.
type ImageUpload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
