package quotes

import (
	"Backend-VentSurvey/src/models"
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"os"

	qrcode "github.com/skip2/go-qrcode"
)

// quoteTemplate หน้า PDF ใบเสนอราคา — layout เรียบ ๆ พิมพ์ A4
const quoteTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; margin: 32px; }
  h1 { font-size: 20px; margin-bottom: 0; }
  .ref { color: #666; margin-top: 4px; }
  .site { margin: 16px 0; }
  table { width: 100%; border-collapse: collapse; margin-top: 16px; }
  th, td { text-align: left; padding: 6px 8px; border-bottom: 1px solid #ddd; }
  th { background: #f4f4f4; }
  td.num, th.num { text-align: right; }
  .totals { margin-top: 16px; width: 40%; margin-left: auto; }
  .totals td { border: none; padding: 3px 8px; }
  .totals .grand { font-weight: bold; border-top: 2px solid #222; }
  .qr { position: absolute; top: 32px; right: 32px; }
  .footnote { margin-top: 24px; color: #888; font-size: 10px; }
</style>
</head>
<body>
{{if .QRDataURI}}<img class="qr" src="{{.QRDataURI}}" width="96" height="96">{{end}}
<h1>Kitchen Extract Cleaning Quotation</h1>
<div class="ref">Ref: {{.Quote.QuoteRef}}</div>
{{if .Site}}
<div class="site">
  <strong>{{.Site.Name}}</strong><br>
  {{.Site.Address}}, {{.Site.City}} {{.Site.Postcode}}<br>
  {{if .Site.ContactName}}Contact: {{.Site.ContactName}} {{.Site.ContactPhone}}{{end}}
</div>
{{end}}
<table>
  <tr><th>Area</th><th>Description</th><th class="num">Qty</th><th>Unit</th><th class="num">Price</th><th class="num">Total</th></tr>
  {{range .Quote.Lines}}
  <tr>
    <td>{{.AreaLabel}}</td>
    <td>{{.Description}}</td>
    <td class="num">{{.Quantity}}</td>
    <td>{{.Unit}}</td>
    <td class="num">{{money .Price}}</td>
    <td class="num">{{money .LineTotal}}</td>
  </tr>
  {{end}}
</table>
<table class="totals">
  <tr><td>Subtotal</td><td class="num">{{money2 .Quote.Subtotal}}</td></tr>
  <tr><td>VAT (20%)</td><td class="num">{{money2 .Quote.VAT}}</td></tr>
  <tr class="grand"><td>Total</td><td class="num">{{money2 .Quote.Total}}</td></tr>
</table>
<div class="footnote">POA items are priced on application. Quotation valid for 30 days. All work to TR19 grease hygiene standard.</div>
</body>
</html>`

var currencySymbols = map[string]string{
	"GBP": "£",
	"EUR": "€",
	"USD": "$",
}

func formatMoney(money *models.Money) string {
	if money == nil {
		return "POA"
	}
	symbol, ok := currencySymbols[money.Currency]
	if !ok {
		symbol = money.Currency + " "
	}
	return fmt.Sprintf("%s%.2f", symbol, float64(money.Amount)/100)
}

var tmpl = template.Must(template.New("quote").Funcs(template.FuncMap{
	"money":  formatMoney,
	"money2": func(m models.Money) string { return formatMoney(&m) },
}).Parse(quoteTemplate))

// buildQuoteHTML ประกอบหน้า HTML ของใบเสนอราคา พร้อม QR ลิงก์ไปหน้า quote ออนไลน์
func buildQuoteHTML(quote *models.Quote, site *models.Site) (string, error) {
	qrDataURI := ""
	if base := os.Getenv("PUBLIC_BASE_URL"); base != "" {
		png, err := qrcode.Encode(base+"/quotes/"+quote.ID.Hex(), qrcode.Medium, 256)
		if err == nil {
			qrDataURI = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
		}
	}

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, map[string]any{
		"Quote":     quote,
		"Site":      site,
		"QRDataURI": template.URL(qrDataURI),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
