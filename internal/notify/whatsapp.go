// Package notify builds the WhatsApp order confirmation that checkout
// and redemption hand back to the client. The deep link targets the shop
// number; the message body is rebuilt entirely from stored data.
package notify

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/safir2310/ayamgepreksambalijo26/internal/ledger"
	"github.com/safir2310/ayamgepreksambalijo26/internal/models"
)

// FormatRupiah renders an amount with Indonesian thousand separators,
// e.g. 55000 -> "55.000".
func FormatRupiah(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// NormalizePhone rewrites a leading local 0 to the 62 country prefix.
func NormalizePhone(phone string) string {
	if strings.HasPrefix(phone, "0") {
		return "62" + phone[1:]
	}
	return phone
}

// WhatsAppURL builds the wa.me deep link carrying the message text.
func WhatsAppURL(shopPhone, message string) string {
	q := url.Values{}
	q.Set("text", message)
	return "https://wa.me/" + shopPhone + "?" + q.Encode()
}

func header(trx *models.Transaction, user *models.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 *ID STRUK: %04d*\n", trx.TransactionNum)
	fmt.Fprintf(&b, "🆔 *ID USER: %04d*\n\n", user.UserNum)
	fmt.Fprintf(&b, "👤 *Nama:* %s\n", user.Username)
	fmt.Fprintf(&b, "📱 *No HP:* %s\n", NormalizePhone(user.Phone))
	fmt.Fprintf(&b, "📍 *Alamat:* %s\n\n", trx.Address)
	return b.String()
}

func footer(b *strings.Builder, verb, shopName string) {
	fmt.Fprintf(b, "🙏 Terima kasih telah %s di %s!\n", verb, shopName)
	b.WriteString("🔥 *Pedasnya Bikin Nagih!*")
}

// PurchaseMessage renders the checkout confirmation for the shop.
func PurchaseMessage(shopName string, trx *models.Transaction, user *models.User, items []ledger.CheckoutItem) string {
	var b strings.Builder
	b.WriteString(header(trx, user))

	b.WriteString("🍽️ *DETAIL PESANAN:*\n")
	for _, item := range items {
		fmt.Fprintf(&b, "• %s x%d = Rp %s\n", item.Name, item.Quantity, FormatRupiah(item.Price*item.Quantity))
	}

	fmt.Fprintf(&b, "\n💰 *TOTAL: Rp %s*\n", FormatRupiah(trx.Total))
	fmt.Fprintf(&b, "⭐ *Point yang akan didapat: %d*\n\n", trx.PointsEarned)

	footer(&b, "memesan", shopName)
	return b.String()
}

// RedeemMessage renders the point-redemption confirmation, including the
// balance left after the debit.
func RedeemMessage(shopName string, trx *models.Transaction, user *models.User, items []ledger.RedeemItem) string {
	var b strings.Builder
	b.WriteString(header(trx, user))

	b.WriteString("🎁 *DETAIL TUKAR POINT:*\n")
	for _, item := range items {
		fmt.Fprintf(&b, "• %s x%d = %d point\n", item.Name, item.Quantity, item.PointsRequired*item.Quantity)
	}

	fmt.Fprintf(&b, "\n💎 *Total Point: %d*\n", -trx.PointsEarned)
	fmt.Fprintf(&b, "⭐ *Sisa Point: %d*\n\n", user.Points)

	footer(&b, "menukar point", shopName)
	return b.String()
}
