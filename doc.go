// Package danfe turns Brazilian NFe XML documents into DANFE PDFs.
//
// # Quick Start
//
//	conv, err := danfe.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	data, _ := os.ReadFile("notas/123.xml")
//	result, err := conv.Convert(ctx, danfe.Input{XML: data})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out := danfe.DestinationPath("notas/123.xml", "", danfe.DefaultSuffix)
//	if err := danfe.WritePDF(out, result.PDF); err != nil {
//	    log.Fatal(err)
//	}
//
// # Conversion Pipeline
//
//  1. Validation: well-formed XML, an infNFe element, model code 55
//  2. Trace enrichment: rastro lot data appended to each xProd (fail-soft)
//  3. Layout: the enriched XML is projected onto the DANFE HTML template
//  4. PDF rendering via headless Chrome (go-rod), A4 portrait
//
// Enrichment never fails a conversion: when it cannot run, the original XML
// continues down the pipeline and the reason is logged at warn level.
//
// # Errors
//
// Failures are reported with sentinel errors, checked with errors.Is:
//
//   - nfe.ErrParse, nfe.ErrSchema: the input is not a usable NFe
//   - ErrRender: layout or browser failure, including an empty PDF
//     (ErrBrowserConnect, ErrPageCreate, ErrPageLoad and ErrPDFGeneration
//     all match ErrRender)
//   - ErrIO: the PDF could not be written or is missing afterwards
package danfe
