package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/inkwell-ai/inkwell-server/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// SendPaymentReceipt 发送支付成功回执
func (s *Service) SendPaymentReceipt(to, itemName string, amountCents, creditsGranted int64) error {
	subject := "支付成功 - Inkwell AI 创作平台"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">支付成功</h2>
        <p>您好，</p>
        <p>您的支付已完成，详情如下：</p>
        <div style="background-color: #f3f4f6; padding: 15px; margin: 20px 0;">
            <p style="margin: 5px 0;">项目：%s</p>
            <p style="margin: 5px 0;">金额：%.2f 元</p>
            <p style="margin: 5px 0;">到账积分：%d</p>
        </div>
        <p>积分已发放到您的账户，可随时开始创作。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, itemName, float64(amountCents)/100, creditsGranted)

	return s.sendHTML(to, subject, body)
}

// SendLowBalanceWarning 发送积分不足提醒
func (s *Service) SendLowBalanceWarning(to string, credits int64) error {
	subject := "积分余额不足 - Inkwell AI 创作平台"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">积分余额不足</h2>
        <p>您好，</p>
        <p>您的账户积分余额仅剩：</p>
        <div style="background-color: #f3f4f6; padding: 15px; text-align: center; font-size: 24px; font-weight: bold; margin: 20px 0;">
            %d
        </div>
        <p>为避免影响使用，建议及时充值或升级订阅套餐。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, credits)

	return s.sendHTML(to, subject, body)
}

// SendRenewalNotice 发送订阅月度积分发放通知
func (s *Service) SendRenewalNotice(to, planName string, credits int64) error {
	subject := "月度积分已到账 - Inkwell AI 创作平台"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">月度积分已到账</h2>
        <p>您好，</p>
        <p>您订阅的 %s 套餐本月积分已发放：</p>
        <div style="background-color: #f3f4f6; padding: 15px; text-align: center; font-size: 24px; font-weight: bold; margin: 20px 0;">
            %d
        </div>
        <p>祝创作愉快！</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, planName, credits)

	return s.sendHTML(to, subject, body)
}

// sendHTML 发送 HTML 邮件
func (s *Service) sendHTML(to, subject, body string) error {
	headers := make(map[string]string)
	headers["From"] = s.cfg.From
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}
