package smtp

import (
	"fmt"
	smtpPkg "net/smtp"
	"os"
)

type ThanksMail struct {
	DonorEmail    string
	DonorName     string
	Amount        int64
	TransactionID string
	DonationDate  string
}

type ItfSmtp interface {
	SendThanksMail(mail ThanksMail) error
}

type smtp struct {
	auth smtpPkg.Auth
	mail string
}

func New() ItfSmtp {
	mail := os.Getenv("SMTP_MAIL")
	password := os.Getenv("SMTP_PASSWORD")
	auth := smtpPkg.PlainAuth("", mail, password, "smtp.gmail.com")

	return &smtp{auth: auth, mail: mail}
}

func (s *smtp) SendThanksMail(mail ThanksMail) error {
	to := []string{mail.DonorEmail}

	message := []byte(fmt.Sprintf(
		"To: %s\r\nSubject: Thank you for your donation\r\n\r\nHello %s, thank you for your donation of Rp%d on %s. Your transaction ID is %s.",
		mail.DonorEmail, mail.DonorName, mail.Amount, mail.DonationDate, mail.TransactionID))

	err := smtpPkg.SendMail("smtp.gmail.com:587", s.auth, s.mail, to, message)
	if err != nil {
		return err
	}

	return nil
}
