package coordination

import "strings"

// speechTerminators are the characters that end a speakable chunk. The
// terminator stays attached to the chunk it ends.
const speechTerminators = ".?!;:。？！：；"

// splitSpeechChunks cuts text into utterance-sized pieces so that playback
// can start as soon as the first piece is synthesized. A trailing fragment
// without a terminator is kept as the final chunk. Chunks with nothing
// speakable in them, whitespace or bare punctuation runs such as the tail of
// an ellipsis, are dropped.
func splitSpeechChunks(text string) []string {
	var chunks []string
	start := 0
	for i, r := range text {
		if strings.ContainsRune(speechTerminators, r) {
			end := i + len(string(r))
			if chunk := text[start:end]; speakable(chunk) {
				chunks = append(chunks, chunk)
			}
			start = end
		}
	}
	if start < len(text) {
		if chunk := text[start:]; speakable(chunk) {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

func speakable(chunk string) bool {
	return strings.TrimSpace(strings.Trim(chunk, speechTerminators)) != ""
}
