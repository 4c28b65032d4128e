// Package tts wraps the Gemini speech generation API for the word
// authoring pipeline: given Japanese text, it returns playable audio bytes
// or fails. The game itself never calls this; audio is generated offline
// and shipped as assets.
package tts

import (
	"context"
	"encoding/binary"
	"fmt"

	"google.golang.org/genai"
)

const (
	defaultModel = "gemini-2.5-flash-preview-tts"
	defaultVoice = "Kore"

	// Gemini TTS returns 16-bit mono PCM at 24 kHz.
	pcmSampleRate = 24000
	pcmChannels   = 1
	pcmBitDepth   = 16
)

// Client wraps the Google GenAI client for speech synthesis.
type Client struct {
	client    *genai.Client
	modelName string
	voice     string
}

// NewClient creates a client using a Gemini API key.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("tts: missing API key (set GEMINI_API_KEY)")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{
		client:    client,
		modelName: defaultModel,
		voice:     defaultVoice,
	}, nil
}

// Synthesize generates speech audio for the given text and returns it as a
// WAV file ready to write to disk.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.modelName,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: text}},
		}},
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &genai.SpeechConfig{
				VoiceConfig: &genai.VoiceConfig{
					PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
						VoiceName: c.voice,
					},
				},
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate speech: %w", err)
	}

	pcm := extractAudio(resp)
	if len(pcm) == 0 {
		return nil, fmt.Errorf("empty audio response for %q", text)
	}

	return wrapWAV(pcm), nil
}

// Close releases resources held by the client.
func (c *Client) Close() error {
	return nil
}

// extractAudio pulls the inline audio bytes out of a generation response.
func extractAudio(resp *genai.GenerateContentResponse) []byte {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data
			}
		}
	}
	return nil
}

// wrapWAV prefixes raw PCM samples with a RIFF/WAVE header.
func wrapWAV(pcm []byte) []byte {
	blockAlign := pcmChannels * pcmBitDepth / 8
	byteRate := pcmSampleRate * blockAlign

	buf := make([]byte, 0, 44+len(pcm))
	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+len(pcm)))
	buf = append(buf, "WAVE"...)
	buf = append(buf, "fmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16) // PCM chunk size
	buf = binary.LittleEndian.AppendUint16(buf, 1)  // PCM format
	buf = binary.LittleEndian.AppendUint16(buf, pcmChannels)
	buf = binary.LittleEndian.AppendUint32(buf, pcmSampleRate)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(byteRate))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(blockAlign))
	buf = binary.LittleEndian.AppendUint16(buf, pcmBitDepth)
	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(pcm)))
	buf = append(buf, pcm...)
	return buf
}
