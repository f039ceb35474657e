package main

import (
	"context"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/task-scheduler/backend/internal/config"
	"github.com/wneessen/go-mail"
)

type worker struct {
	cfg    *config.Config
	client *mail.Client
	logger *slog.Logger
}

// run 逐条处理队列中的消息，直到 ctx 被取消或消息通道关闭
func (w *worker) run(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				w.logger.Warn("消息通道已关闭")
				return
			}
			w.handle(msg)
		}
	}
}

func (w *worker) handle(msg amqp.Delivery) {
	w.logger.Info("收到消息", slog.String("message", string(msg.Body)))

	m, err := buildMail(w.cfg, msg.Body)
	if err != nil {
		// 消息本身有问题，重试也不会成功
		w.logger.Error("无法构建邮件", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	if err := w.client.DialAndSend(m); err != nil {
		w.logger.Error("邮件发送失败", slog.String("error", err.Error()))
		_ = msg.Nack(false, true)
		return
	}

	_ = msg.Ack(false)
}
