package utils

import (
	"encoding/base64"
	"fmt"
	"os"

	qrcode "github.com/skip2/go-qrcode"
)

// GenerateSepaQR génère un QR SEPA (format EPC) en base64, prêt à insérer
// dans un <img src="...">. Utilisé pour le paiement par virement bancaire :
// le client scanne le QR depuis l'email de confirmation.
func GenerateSepaQR(reference string, amount float64) (string, error) {
	iban := os.Getenv("SHOP_IBAN")
	bic := os.Getenv("SHOP_BIC")
	name := os.Getenv("SHOP_BANK_NAME")
	if iban == "" {
		return "", fmt.Errorf("SHOP_IBAN non configuré")
	}

	sepa := fmt.Sprintf(`BCD
001
1
SCT
%s
%s
%s
EUR%.2f
%s`, bic, name, iban, amount, reference)

	png, err := qrcode.Encode(sepa, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
