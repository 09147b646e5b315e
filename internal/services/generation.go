package services

import (
	"fmt"

	types "github.com/yungbote/hummingbird-backend/internal/domain"
	"github.com/yungbote/hummingbird-backend/internal/domain/mentor"
	"github.com/yungbote/hummingbird-backend/internal/platform/apierr"
	"github.com/yungbote/hummingbird-backend/internal/platform/openai"
)

func toChatMessages(msgs []types.Message) []openai.Message {
	out := make([]openai.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, openai.Message{Role: string(m.Role), Content: m.Content})
	}
	return out
}

func systemMessage(content string) types.Message {
	return types.Message{Role: mentor.RoleSystem, Content: content}
}

func userMessage(content string) types.Message {
	return types.Message{Role: mentor.RoleUser, Content: content}
}

func assistantMessage(content string) types.Message {
	return types.Message{Role: mentor.RoleAssistant, Content: content}
}

func generationFailed(err error) error {
	return apierr.Upstream("generation_failed", fmt.Errorf("generation: %w", err))
}
