// Package mailer 渲染并通过SMTP发送事务邮件
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

// Message 待发送邮件
type Message struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Sender 邮件发送接口
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config SMTP配置
type Config struct {
	Host               string
	Port               int
	Username           string
	Password           string
	From               string
	InsecureSkipVerify bool
}

// SMTPSender 基于 gomail 的SMTP发送器
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender 创建SMTP发送器
func NewSMTPSender(cfg Config) *SMTPSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.InsecureSkipVerify {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true, ServerName: cfg.Host}
	}
	return &SMTPSender{dialer: d, from: cfg.From}
}

// Send 发送邮件；gomail 不支持 context，发送前检查是否已取消
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.TextBody != "" {
		m.SetBody("text/plain", msg.TextBody)
		if msg.HTMLBody != "" {
			m.AddAlternative("text/html", msg.HTMLBody)
		}
	} else {
		m.SetBody("text/html", msg.HTMLBody)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

// NopSender 未配置SMTP时使用，只返回错误供调用方记录
type NopSender struct{}

// Send 始终返回未配置错误
func (NopSender) Send(ctx context.Context, msg Message) error {
	return fmt.Errorf("SMTP未配置，邮件未发送: %s", msg.Subject)
}

var resetTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <p>{{.Name}}，您好：</p>
  <p>我们收到了重置您 UTC 测试平台账户密码的请求。请在 {{.ExpireMinutes}} 分钟内点击下方链接设置新密码：</p>
  <p><a href="{{.ResetURL}}">重置密码</a></p>
  <p>如果这不是您本人的操作，请忽略此邮件，您的密码不会被修改。</p>
</body>
</html>`))

// ResetPasswordData 重置密码邮件参数
type ResetPasswordData struct {
	Name          string
	ResetURL      string
	ExpireMinutes int
}

// ResetPasswordMessage 渲染重置密码邮件
func ResetPasswordMessage(to string, data ResetPasswordData) (Message, error) {
	var buf bytes.Buffer
	if err := resetTemplate.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("渲染邮件模板失败: %w", err)
	}
	return Message{
		To:       to,
		Subject:  "重置密码",
		HTMLBody: buf.String(),
		TextBody: fmt.Sprintf("%s，您好：\n请在 %d 分钟内打开以下链接重置密码：\n%s\n", data.Name, data.ExpireMinutes, data.ResetURL),
	}, nil
}
