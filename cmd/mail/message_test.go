package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Email.SMTP.Username = "noreply@example.com"
	return cfg
}

func TestBuildRunFinishedMail(t *testing.T) {
	templatesDir = "../../templates"

	body, err := json.Marshal(domain.MailMessage{
		Type: domain.MailTypeRunFinished,
		To:   "operator@example.com",
		Data: domain.RunFinishedMailData{
			RunID:        7,
			RunKey:       "3f1c3a8e-2f7a-4a57-9b53-7f7c1f1c2a10",
			Operator:     "管理员",
			NumTasks:     50,
			NumResources: 10,
			BestTime:     123.456,
			Makespan:     12.5,
			Seed:         42,
		},
	})
	require.NoError(t, err)

	m, err := buildMail(testConfig(), body)
	require.NoError(t, err)

	assert.Equal(t, []string{"ECNC 任务调度系统 - 调度 #7 已完成"}, m.GetGenHeader(mail.HeaderSubject))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
}

func TestBuildMailUnknownType(t *testing.T) {
	body := []byte(`{"type":"reset_password","to":"a@example.com","data":{}}`)

	_, err := buildMail(testConfig(), body)
	assert.ErrorContains(t, err, "不支持的邮件类型")
}

func TestBuildMailInvalidBody(t *testing.T) {
	_, err := buildMail(testConfig(), []byte("not json"))
	assert.Error(t, err)
}
