// Package json persists the session history as a single JSON document and
// provides the file-backed [codechat.Store] used in production.
//
// The persisted layout keeps the field names and integer-millisecond
// timestamps of the history this client replaces, so an existing history
// file loads unchanged.
package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mfilipek/codechat"
)

// envelope is the v1 wire format for the persisted history.
type envelope struct {
	Version  int          `json:"version"`
	Sessions []sessionDTO `json:"sessions"`
}

type sessionDTO struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Messages  []messageDTO `json:"messages"`
	CreatedAt int64        `json:"createdAt"`
	UpdatedAt int64        `json:"updatedAt"`
}

type messageDTO struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsUser    bool   `json:"isUser"`
	Timestamp int64  `json:"timestamp"`
}

// MarshalHistory serializes sessions in v1 envelope format.
func MarshalHistory(sessions []codechat.Session) ([]byte, error) {
	env := envelope{
		Version:  1,
		Sessions: make([]sessionDTO, len(sessions)),
	}
	for i, s := range sessions {
		env.Sessions[i] = toDTO(s)
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalHistory deserializes a history document. Both the v1 envelope and
// the legacy unversioned form — a bare JSON array of sessions — are
// accepted.
func UnmarshalHistory(data []byte) ([]codechat.Session, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var dtos []sessionDTO
		if err := json.Unmarshal(data, &dtos); err != nil {
			return nil, fmt.Errorf("unmarshal legacy history: %w", err)
		}
		return fromDTOs(dtos), nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return nil, fmt.Errorf("unsupported history version: %d", env.Version)
	}
	return fromDTOs(env.Sessions), nil
}

func toDTO(s codechat.Session) sessionDTO {
	dto := sessionDTO{
		ID:        s.ID,
		Title:     s.Title,
		Messages:  make([]messageDTO, len(s.Messages)),
		CreatedAt: s.CreatedAt.UnixMilli(),
		UpdatedAt: s.UpdatedAt.UnixMilli(),
	}
	for i, m := range s.Messages {
		dto.Messages[i] = messageDTO{
			ID:        m.ID,
			Text:      m.Text,
			IsUser:    m.IsUser,
			Timestamp: m.Timestamp.UnixMilli(),
		}
	}
	return dto
}

func fromDTOs(dtos []sessionDTO) []codechat.Session {
	if len(dtos) == 0 {
		return nil
	}
	sessions := make([]codechat.Session, len(dtos))
	for i, dto := range dtos {
		s := codechat.Session{
			ID:        dto.ID,
			Title:     dto.Title,
			CreatedAt: time.UnixMilli(dto.CreatedAt),
			UpdatedAt: time.UnixMilli(dto.UpdatedAt),
		}
		if len(dto.Messages) > 0 {
			s.Messages = make([]codechat.Message, len(dto.Messages))
			for j, m := range dto.Messages {
				s.Messages[j] = codechat.Message{
					ID:        m.ID,
					Text:      m.Text,
					IsUser:    m.IsUser,
					Timestamp: time.UnixMilli(m.Timestamp),
				}
			}
		}
		sessions[i] = s
	}
	return sessions
}
