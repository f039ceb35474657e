package main

import (
	"encoding/json"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

var templatesDir = "./templates"

type rawMailMessage struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

// buildMail 将队列中的消息解析为待发送的邮件
func buildMail(cfg *config.Config, body []byte) (*mail.Msg, error) {
	var raw rawMailMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("邮件信息反序列化失败: %w", err)
	}

	m := mail.NewMsg()
	if err := m.From(cfg.Email.SMTP.Username); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := m.To(raw.To); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}

	switch raw.Type {
	case domain.MailTypeRunFinished:
		var data domain.RunFinishedMailData
		if err := json.Unmarshal(raw.Data, &data); err != nil {
			return nil, fmt.Errorf("邮件数据反序列化失败: %w", err)
		}

		tmpl, err := template.ParseFiles(filepath.Join(templatesDir, "run_finished_email.html"))
		if err != nil {
			return nil, fmt.Errorf("无法解析邮件模板: %w", err)
		}
		if err := m.SetBodyHTMLTemplate(tmpl, data); err != nil {
			return nil, fmt.Errorf("无法设置邮件正文: %w", err)
		}
		m.Subject(fmt.Sprintf("ECNC 任务调度系统 - 调度 #%d 已完成", data.RunID))
	default:
		return nil, fmt.Errorf("不支持的邮件类型: %s", raw.Type)
	}

	return m, nil
}
