// Package layout builds the HTML page of a DANFE.
//
// The page is an html/template (from internal/assets) executed over a view
// of nfe.Invoice in which every value is already formatted for print:
// Brazilian decimals, masked CNPJ/CPF/CEP, grouped access key and
// DD/MM/YYYY timestamps. Two optional extras are layered on top:
//   - a diagonal "SEM VALOR FISCAL" watermark for homologation invoices
//   - a Markdown note rendered with goldmark, printed after the
//     additional-information block
//
// PDF generation is handled separately by the root danfe package using
// headless Chrome (go-rod). This package only produces HTML.
package layout
