// Package speech transcribes post audio with Google Cloud Speech-to-Text.
package speech

import (
	"context"
	"fmt"
	"os"
	"strings"

	gspeech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
)

type recognizer interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest, opts ...gax.CallOption) (*speechpb.RecognizeResponse, error)
	Close() error
}

var newSpeechClient = func(ctx context.Context, opts ...option.ClientOption) (recognizer, error) {
	return gspeech.NewClient(ctx, opts...)
}

// GoogleTranscriber runs synchronous recognition requests. A client is
// opened per call and closed when the call returns.
type GoogleTranscriber struct {
	credentials []byte
	encoding    speechpb.RecognitionConfig_AudioEncoding
	language    string
}

// NewGoogleTranscriber validates the encoding name (e.g. "MP3", "LINEAR16")
// and reads the service account key. An empty credentialsFile falls back to
// application default credentials.
func NewGoogleTranscriber(credentialsFile, encoding, language string) (*GoogleTranscriber, error) {
	enc, ok := speechpb.RecognitionConfig_AudioEncoding_value[strings.ToUpper(encoding)]
	if !ok {
		return nil, fmt.Errorf("unknown speech encoding %q", encoding)
	}

	t := &GoogleTranscriber{
		encoding: speechpb.RecognitionConfig_AudioEncoding(enc),
		language: language,
	}

	if credentialsFile != "" {
		data, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read speech credentials: %w", err)
		}
		t.credentials = data
	}

	return t, nil
}

// Transcribe returns the first alternative of every result, concatenated in
// order. Audio without recognizable speech yields "".
func (t *GoogleTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	var opts []option.ClientOption
	if t.credentials != nil {
		opts = append(opts, option.WithCredentialsJSON(t.credentials))
	}

	client, err := newSpeechClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("speech client: %w", err)
	}
	defer client.Close()

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:     t.encoding,
			LanguageCode: t.language,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("speech recognize: %w", err)
	}

	var sb strings.Builder
	for _, r := range resp.GetResults() {
		alts := r.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		sb.WriteString(alts[0].GetTranscript())
	}

	return sb.String(), nil
}
