package nfe

import (
	"strings"

	"github.com/beevik/etree"
)

// Environment codes (tpAmb).
const (
	EnvironmentProduction   = "1"
	EnvironmentHomologation = "2"
)

// Invoice is a read-only projection of the fields printed on a DANFE.
// Values are kept as they appear in the XML; formatting belongs to the layout.
type Invoice struct {
	AccessKey      string
	Model          string
	Number         string
	Series         string
	IssuedAt       string
	Operation      string // tpNF: 0 = entrada, 1 = saida
	Nature         string
	Environment    string
	Emitter        Party
	Recipient      Party
	Items          []Item
	Totals         Totals
	FreightMode    string
	Protocol       Protocol
	AdditionalInfo string
	FiscalInfo     string
}

// Party is an emitter or a recipient.
type Party struct {
	Name      string
	TradeName string
	CNPJ      string
	CPF       string
	IE        string
	Phone     string
	Address   Address
}

// TaxID returns the CNPJ, or the CPF when no CNPJ is present.
func (p Party) TaxID() string {
	if p.CNPJ != "" {
		return p.CNPJ
	}
	return p.CPF
}

// Address is a postal address.
type Address struct {
	Street     string
	Number     string
	Complement string
	District   string
	City       string
	State      string
	ZIP        string
}

// Item is one det entry.
type Item struct {
	Number      string
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

// Totals holds total/ICMSTot.
type Totals struct {
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

// Protocol holds the authorization protocol (protNFe/infProt).
type Protocol struct {
	Number     string
	ReceivedAt string
}

// Homologation reports whether the invoice was issued in the test environment.
func (inv *Invoice) Homologation() bool {
	return inv.Environment == EnvironmentHomologation
}

// Invoice builds the DANFE projection of d.
func (d *Document) Invoice() *Invoice {
	inf := First(d.tree, PathInfNFe)
	ide := firstChild(inf, "ide")
	key, _ := d.AccessKey()

	inv := &Invoice{
		AccessKey:   key,
		Model:       d.model,
		Number:      TextOf(ide, "nNF"),
		Series:      TextOf(ide, "serie"),
		IssuedAt:    firstNonEmpty(TextOf(ide, "dhEmi"), TextOf(ide, "dEmi")),
		Operation:   TextOf(ide, "tpNF"),
		Nature:      TextOf(ide, "natOp"),
		Environment: TextOf(ide, "tpAmb"),
		Emitter:     partyOf(firstChild(inf, "emit"), "enderEmit"),
		Recipient:   partyOf(firstChild(inf, "dest"), "enderDest"),
		FreightMode: TextOf(inf, "transp/modFrete"),
		Protocol: Protocol{
			Number:     TextOf(d.tree, "//protNFe/infProt/nProt"),
			ReceivedAt: TextOf(d.tree, "//protNFe/infProt/dhRecbto"),
		},
		AdditionalInfo: TextOf(inf, "infAdic/infCpl"),
		FiscalInfo:     TextOf(inf, "infAdic/infAdFisco"),
	}

	tot := First(inf, etree.MustCompilePath("total/ICMSTot"))
	inv.Totals = Totals{
		ICMSBase:   TextOf(tot, "vBC"),
		ICMS:       TextOf(tot, "vICMS"),
		ICMSSTBase: TextOf(tot, "vBCST"),
		ICMSST:     TextOf(tot, "vST"),
		Products:   TextOf(tot, "vProd"),
		Freight:    TextOf(tot, "vFrete"),
		Insurance:  TextOf(tot, "vSeg"),
		Discount:   TextOf(tot, "vDesc"),
		Other:      TextOf(tot, "vOutro"),
		IPI:        TextOf(tot, "vIPI"),
		Invoice:    TextOf(tot, "vNF"),
	}

	for _, det := range All(inf, etree.MustCompilePath("det")) {
		inv.Items = append(inv.Items, itemOf(det))
	}

	return inv
}

// itemOf projects one det element.
func itemOf(det *etree.Element) Item {
	prod := firstChild(det, "prod")
	icms := First(det, etree.MustCompilePath("imposto/ICMS/*"))

	cst := TextOf(icms, "CST")
	if cst != "" {
		cst = TextOf(icms, "orig") + cst
	} else {
		cst = TextOf(icms, "CSOSN")
	}

	return Item{
		Number:      strings.TrimSpace(det.SelectAttrValue("nItem", "")),
		Code:        TextOf(prod, "cProd"),
		Description: TextOf(prod, "xProd"),
		NCM:         TextOf(prod, "NCM"),
		CST:         cst,
		CFOP:        TextOf(prod, "CFOP"),
		Unit:        TextOf(prod, "uCom"),
		Quantity:    TextOf(prod, "qCom"),
		UnitPrice:   TextOf(prod, "vUnCom"),
		Total:       TextOf(prod, "vProd"),
		ICMSBase:    TextOf(icms, "vBC"),
		ICMSValue:   TextOf(icms, "vICMS"),
		ICMSRate:    TextOf(icms, "pICMS"),
		IPIValue:    TextOf(det, "imposto/IPI/IPITrib/vIPI"),
	}
}

// partyOf projects an emit or dest element with its address child.
func partyOf(el *etree.Element, addressTag string) Party {
	addr := firstChild(el, addressTag)
	return Party{
		Name:      TextOf(el, "xNome"),
		TradeName: TextOf(el, "xFant"),
		CNPJ:      TextOf(el, "CNPJ"),
		CPF:       TextOf(el, "CPF"),
		IE:        TextOf(el, "IE"),
		Phone:     TextOf(addr, "fone"),
		Address: Address{
			Street:     TextOf(addr, "xLgr"),
			Number:     TextOf(addr, "nro"),
			Complement: TextOf(addr, "xCpl"),
			District:   TextOf(addr, "xBairro"),
			City:       TextOf(addr, "xMun"),
			State:      TextOf(addr, "UF"),
			ZIP:        TextOf(addr, "CEP"),
		},
	}
}

// firstChild returns the first direct child with the given local name.
func firstChild(el *etree.Element, tag string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
