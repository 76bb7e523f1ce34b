package utils

import (
	"fmt"
	"log"
	"os"

	"github.com/wneessen/go-mail"

	"libris_back_end/internal/models"
)

// SendOrderConfirmationEmail envoie l'email de confirmation de commande.
// Appelé en goroutine après le checkout : un échec d'envoi ne fait jamais
// échouer la commande.
func SendOrderConfirmationEmail(order models.Order, to string) {
	if os.Getenv("SMTP_HOST") == "" {
		log.Println("⚠️ SMTP non configuré, email de confirmation ignoré")
		return
	}

	msg := mail.NewMsg()
	if err := msg.From(os.Getenv("SMTP_FROM")); err != nil {
		log.Printf("❌ Adresse expéditeur invalide: %v", err)
		return
	}
	if err := msg.To(to); err != nil {
		log.Printf("❌ Adresse destinataire invalide: %v", err)
		return
	}
	msg.Subject(fmt.Sprintf("Confirmation de votre commande %s", order.ID))
	msg.SetBodyString(mail.TypeTextHTML, orderConfirmationHTML(order))

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		log.Printf("❌ Erreur client SMTP: %v", err)
		return
	}

	log.Println("📤 Envoi de la confirmation de commande à", to)
	if err := client.DialAndSend(msg); err != nil {
		log.Printf("❌ Erreur envoi email: %v", err)
	}
}

func orderConfirmationHTML(order models.Order) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%d</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%.2f€</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%.2f€</td>
			</tr>`, item.Name, item.Quantity, item.Price, item.Price*float64(item.Quantity))
	}

	// Paiement par virement : on joint un QR SEPA scannable, la référence
	// est l'identifiant de commande.
	qrHTML := ""
	if order.PaymentMethod == "Virement bancaire" {
		if qr, err := GenerateSepaQR(order.ID.String(), order.TotalPrice); err == nil {
			qrHTML = fmt.Sprintf(`
		<h3>Paiement par virement</h3>
		<p>Scannez ce QR code avec votre application bancaire :</p>
		<img src="%s" alt="QR SEPA" width="256" height="256"/>`, qr)
		}
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Confirmation de commande</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Confirmation de votre commande</h2>
		<p>Bonjour %s,</p>
		<p>Votre commande a bien été enregistrée.</p>

		<h3>Détails de la commande</h3>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Article</th>
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Quantité</th>
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Prix unitaire</th>
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>%s</tbody>
		</table>
		<p><strong>Articles :</strong> %.2f€<br/>
		<strong>Livraison :</strong> %.2f€<br/>
		<strong>TVA :</strong> %.2f€<br/>
		<strong>Total :</strong> %.2f€</p>
		%s
		<p style="color: #888; font-size: 12px;">Référence : %s</p>
	</div>
</body>
</html>`, order.UserName, itemsHTML, order.ItemsPrice, order.ShippingPrice,
		order.TaxPrice, order.TotalPrice, qrHTML, order.ID)
}
