package utils

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/mailjet/mailjet-apiv3-go/v4"
)

// SendPayoutMail notifies the operations inbox that a sell order is awaiting a
// bank payout. Mailjet is tried first; if its keys are missing we fall back to
// plain SMTP. Failures are logged and swallowed, mail must never block a sell.
func SendPayoutMail(referenceCode string, netFiat float64, fiatCurrency string, amountCrypto float64, cryptoCurrency string) {
	fromEmail := os.Getenv("PAYOUT_MAIL_FROM")
	toEmail := os.Getenv("PAYOUT_MAIL_TO")
	if fromEmail == "" || toEmail == "" {
		logrus.Warn("PAYOUT_MAIL_FROM / PAYOUT_MAIL_TO not set, skipping payout mail")
		return
	}

	subject := fmt.Sprintf("Payout pending: %s", referenceCode)
	body := fmt.Sprintf(`<body style="margin:0;padding:0;background:#f6f6f6;">
  <table width="100%%" cellpadding="0" cellspacing="0" border="0" style="max-width:600px;background:#f6f6f6;">
    <tr>
      <td style="padding:32px;">
        <h1 style="margin:0 0 12px 0;font-family:Arial,sans-serif;font-size:28px;color:#111;">Sell order awaiting payout</h1>
        <table cellpadding="0" cellspacing="0" border="0" style="width:100%%;">
          <tr>
            <td style="font-family:Arial,sans-serif;font-size:16px;color:#555;padding:6px 0;">Reference:</td>
            <td style="font-family:Arial,sans-serif;font-size:16px;color:#111;font-weight:bold;padding:6px 0;">%s</td>
          </tr>
          <tr>
            <td style="font-family:Arial,sans-serif;font-size:16px;color:#555;padding:6px 0;">Payout amount:</td>
            <td style="font-family:Arial,sans-serif;font-size:16px;color:#111;font-weight:bold;padding:6px 0;">%.2f %s</td>
          </tr>
          <tr>
            <td style="font-family:Arial,sans-serif;font-size:16px;color:#555;padding:6px 0;">Crypto received:</td>
            <td style="font-family:Arial,sans-serif;font-size:16px;color:#111;font-weight:bold;padding:6px 0;">%.6f %s</td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>`, referenceCode, netFiat, fiatCurrency, amountCrypto, cryptoCurrency)

	apiKey := os.Getenv("MAILJET_API_KEY")
	secretKey := os.Getenv("MAILJET_SECRET_KEY")
	if apiKey != "" && secretKey != "" {
		mj := mailjet.NewMailjetClient(apiKey, secretKey)
		messages := &mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{
			{
				From:     &mailjet.RecipientV31{Email: fromEmail, Name: "Ramp"},
				To:       &mailjet.RecipientsV31{{Email: toEmail, Name: "Operations"}},
				Subject:  subject,
				HTMLPart: body,
			},
		}}
		if _, err := mj.SendMailV31(messages); err != nil {
			logrus.Errorf("mailjet payout mail failed: %s", err)
		} else {
			logrus.Infof("payout mail sent via Mailjet for %s", referenceCode)
		}
		return
	}

	password := os.Getenv("SMTP_APP_PASSWORD")
	m := gomail.NewMessage()
	m.SetHeader("From", fromEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer("smtp.gmail.com", 587, fromEmail, password)
	if err := d.DialAndSend(m); err != nil {
		logrus.Errorf("smtp payout mail failed: %s", err)
	} else {
		logrus.Infof("payout mail sent via SMTP for %s", referenceCode)
	}
}
