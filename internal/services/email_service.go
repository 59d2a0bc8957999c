package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendVerificationCode(email, code string) error
	SendWelcomeEmail(email, name string) error
	SendOrderConfirmation(email, orderNumber string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendVerificationCode(email, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "[Bijou] 이메일 인증 코드")

	body := fmt.Sprintf(`
		<h2>이메일 인증 코드</h2>
		<p>아래 인증 코드를 회원가입 화면에 입력해 주세요.</p>
		<p style="font-size:24px;letter-spacing:4px;"><strong>%s</strong></p>
		<p>이 코드는 5분 동안 유효합니다.</p>
	`, code)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (s *emailService) SendWelcomeEmail(email, name string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "[Bijou] 회원가입을 환영합니다")

	body := fmt.Sprintf(`
		<h2>%s님, 환영합니다!</h2>
		<p>Bijou 회원가입이 완료되었습니다.</p>
		<p>지금 바로 다양한 상품을 만나보세요.</p>
	`, name)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func (s *emailService) SendOrderConfirmation(email, orderNumber string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "[Bijou] 주문이 접수되었습니다")

	body := fmt.Sprintf(`
		<h2>주문이 접수되었습니다</h2>
		<p>주문번호: <strong>%s</strong></p>
		<p>주문 내역은 마이페이지에서 확인하실 수 있습니다.</p>
	`, orderNumber)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send order confirmation email: %w", err)
	}
	return nil
}
