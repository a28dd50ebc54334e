package layout

import (
	"html/template"
	"strings"

	"github.com/Thucosta0/conversor-danfe/internal/dateutil"
	"github.com/Thucosta0/conversor-danfe/internal/nfe"
	"github.com/Thucosta0/conversor-danfe/internal/numfmt"
)

// Print precision, following the usual DANFE columns.
const (
	moneyPlaces    = 2
	quantityPlaces = 4
	unitPlaces     = 4
	ratePlaces     = 2
	numberDigits   = 9
)

// operationLabels maps tpNF to its printed label.
var operationLabels = map[string]string{
	"0": "0 - ENTRADA",
	"1": "1 - SAÍDA",
}

// freightLabels maps modFrete to its printed label.
var freightLabels = map[string]string{
	"0": "0 - CONTRATAÇÃO POR CONTA DO REMETENTE (CIF)",
	"1": "1 - CONTRATAÇÃO POR CONTA DO DESTINATÁRIO (FOB)",
	"2": "2 - CONTRATAÇÃO POR CONTA DE TERCEIROS",
	"3": "3 - TRANSPORTE PRÓPRIO POR CONTA DO REMETENTE",
	"4": "4 - TRANSPORTE PRÓPRIO POR CONTA DO DESTINATÁRIO",
	"9": "9 - SEM OCORRÊNCIA DE TRANSPORTE",
}

// page is the data the DANFE template is executed with.
type page struct {
	CSS          template.CSS
	WatermarkCSS template.CSS
	Note         template.HTML

	AccessKey      string
	Number         string
	Series         string
	IssuedAt       string
	Operation      string
	Nature         string
	Protocol       string
	Emitter        partyView
	Recipient      partyView
	Items          []itemView
	Totals         totalsView
	FreightMode    string
	AdditionalInfo string
	FiscalInfo     string
}

type partyView struct {
	Name        string
	TradeName   string
	TaxID       string
	IE          string
	Phone       string
	AddressLine string
	CityLine    string
}

type itemView struct {
	Code        string
	Description string
	NCM         string
	CST         string
	CFOP        string
	Unit        string
	Quantity    string
	UnitPrice   string
	Total       string
	ICMSBase    string
	ICMSValue   string
	ICMSRate    string
	IPIValue    string
}

type totalsView struct {
	ICMSBase   string
	ICMS       string
	ICMSSTBase string
	ICMSST     string
	Products   string
	Freight    string
	Insurance  string
	Discount   string
	Other      string
	IPI        string
	Invoice    string
}

// newPage formats inv for print. timeLayout is a Go time layout.
func newPage(inv *nfe.Invoice, timeLayout string) *page {
	p := &page{
		AccessKey:      numfmt.AccessKey(inv.AccessKey),
		Number:         invoiceNumber(inv.Number),
		Series:         inv.Series,
		IssuedAt:       dateutil.FormatTimestamp(inv.IssuedAt, timeLayout),
		Operation:      labelOr(operationLabels, inv.Operation),
		Nature:         inv.Nature,
		Protocol:       protocolLine(inv.Protocol, timeLayout),
		Emitter:        newPartyView(inv.Emitter),
		Recipient:      newPartyView(inv.Recipient),
		FreightMode:    labelOr(freightLabels, inv.FreightMode),
		AdditionalInfo: inv.AdditionalInfo,
		FiscalInfo:     inv.FiscalInfo,
		Totals: totalsView{
			ICMSBase:   money(inv.Totals.ICMSBase),
			ICMS:       money(inv.Totals.ICMS),
			ICMSSTBase: money(inv.Totals.ICMSSTBase),
			ICMSST:     money(inv.Totals.ICMSST),
			Products:   money(inv.Totals.Products),
			Freight:    money(inv.Totals.Freight),
			Insurance:  money(inv.Totals.Insurance),
			Discount:   money(inv.Totals.Discount),
			Other:      money(inv.Totals.Other),
			IPI:        money(inv.Totals.IPI),
			Invoice:    money(inv.Totals.Invoice),
		},
	}

	p.Items = make([]itemView, 0, len(inv.Items))
	for _, it := range inv.Items {
		p.Items = append(p.Items, itemView{
			Code:        it.Code,
			Description: it.Description,
			NCM:         it.NCM,
			CST:         it.CST,
			CFOP:        it.CFOP,
			Unit:        it.Unit,
			Quantity:    numfmt.DecimalOrRaw(it.Quantity, quantityPlaces),
			UnitPrice:   numfmt.DecimalOrRaw(it.UnitPrice, unitPlaces),
			Total:       money(it.Total),
			ICMSBase:    money(it.ICMSBase),
			ICMSValue:   money(it.ICMSValue),
			ICMSRate:    numfmt.DecimalOrRaw(it.ICMSRate, ratePlaces),
			IPIValue:    money(it.IPIValue),
		})
	}
	return p
}

func newPartyView(p nfe.Party) partyView {
	a := p.Address

	street := joinNonEmpty(", ", a.Street, a.Number, a.Complement)
	addressLine := joinNonEmpty(" - ", street, a.District)

	city := joinNonEmpty("/", a.City, a.State)
	cityLine := joinNonEmpty(" - ", city, numfmt.CEP(a.ZIP))

	return partyView{
		Name:        p.Name,
		TradeName:   p.TradeName,
		TaxID:       numfmt.TaxID(p.TaxID()),
		IE:          p.IE,
		Phone:       p.Phone,
		AddressLine: addressLine,
		CityLine:    cityLine,
	}
}

// invoiceNumber pads nNF to nine digits and groups it: 1234 -> 000.001.234.
func invoiceNumber(n string) string {
	if n == "" || len(n) > numberDigits || strings.Trim(n, "0123456789") != "" {
		return n
	}
	padded := strings.Repeat("0", numberDigits-len(n)) + n
	return padded[0:3] + "." + padded[3:6] + "." + padded[6:9]
}

func protocolLine(p nfe.Protocol, timeLayout string) string {
	return joinNonEmpty(" - ", p.Number, dateutil.FormatTimestamp(p.ReceivedAt, timeLayout))
}

func money(v string) string {
	return numfmt.DecimalOrRaw(v, moneyPlaces)
}

func labelOr(labels map[string]string, code string) string {
	if label, ok := labels[code]; ok {
		return label
	}
	return code
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
