// Package metadata detects document-level facts from extracted text:
// the business document type and globally visible identifiers.
//
// Detection is regex-based and intentionally lightweight. The results
// are attached to every chunk and injected as a text prefix before
// embedding, which makes retrieval robust to identifier-style questions
// without a metadata-filtering index.
package metadata

import (
	"regexp"
	"strings"
)

// Document types recognised by DetectDocumentType.
const (
	TypeBOL                  = "bol"
	TypeRateConfirmation     = "rate_confirmation"
	TypeInvoice              = "invoice"
	TypePackingList          = "packing_list"
	TypeManifest             = "manifest"
	TypeShipmentInstructions = "shipment_instructions"
)

var (
	bolWordRE      = regexp.MustCompile(`\bbol\b`)
	invoiceWordRE  = regexp.MustCompile(`\binvoice\b`)
	referenceIDRE  = regexp.MustCompile(`(?i)\bReference\s*ID\s*[:#-]?\s*([A-Z0-9-]{4,})\b`)
	shipmentIDRE   = regexp.MustCompile(`(?i)\bShipment\s*(ID|#)\s*[:#-]?\s*([A-Z0-9-]{4,})\b`)
	bolNumberRE    = regexp.MustCompile(`(?i)\bBOL\s*(Number|No\.?|#)?\s*[:#-]?\s*([A-Z0-9-]{6,})\b`)
	poNumberRE     = regexp.MustCompile(`(?i)\b(Purchase\s*Order|PO)\s*(Number|No\.?|#)?\s*[:#-]?\s*([A-Z0-9-]{4,})\b`)
	containerIDRE  = regexp.MustCompile(`(?i)\bContainer\s*(ID|No\.?|#)?\s*[:#-]?\s*([A-Z0-9-]{6,})\b`)
	carrierMCRE    = regexp.MustCompile(`(?i)\bMC\s*#?\s*([0-9]{5,10})\b`)
	bookingDateRE  = regexp.MustCompile(`(?i)\bBooking\s*Date\s*[:#-]?\s*([0-9]{1,2}[-/][0-9]{1,2}[-/][0-9]{2,4})\b`)
	issueDateRE    = regexp.MustCompile(`(?i)\bIssue\s*Date\s*[:#-]?\s*([0-9]{1,2}[-/][0-9]{1,2}[-/][0-9]{2,4})\b`)
	currencyHintRE = regexp.MustCompile(`\bUSD\b|\$`)
)

// prefixKeys is the ordering of identifier lines in BuildPrefix.
var prefixKeys = []string{
	"document_type",
	"reference_id",
	"shipment_id",
	"bol_number",
	"po_number",
	"container_id",
	"carrier_mc",
	"booking_date",
	"issue_date",
	"currency_hint",
}

// DetectDocumentType classifies a transportation document by keyword.
// Returns "" when no type matches.
func DetectDocumentType(text string) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "bill of lading") || bolWordRE.MatchString(t):
		return TypeBOL
	case strings.Contains(t, "rate confirmation") || strings.Contains(t, "load confirmation"):
		return TypeRateConfirmation
	case strings.Contains(t, "commercial invoice") || invoiceWordRE.MatchString(t):
		return TypeInvoice
	case strings.Contains(t, "packing list"):
		return TypePackingList
	case strings.Contains(t, "manifest"):
		return TypeManifest
	case strings.Contains(t, "shipment instruction") || strings.Contains(t, "shipping instructions"):
		return TypeShipmentInstructions
	}
	return ""
}

// ExtractIdentifiers pulls globally visible identifiers out of the
// full document text. Dates are kept raw, not normalised.
func ExtractIdentifiers(text string) map[string]string {
	out := make(map[string]string)

	if m := referenceIDRE.FindStringSubmatch(text); m != nil {
		out["reference_id"] = m[1]
	}
	if m := shipmentIDRE.FindStringSubmatch(text); m != nil {
		out["shipment_id"] = m[2]
	}
	if m := bolNumberRE.FindStringSubmatch(text); m != nil {
		out["bol_number"] = m[2]
	}
	if m := poNumberRE.FindStringSubmatch(text); m != nil {
		out["po_number"] = m[3]
	}
	if m := containerIDRE.FindStringSubmatch(text); m != nil {
		out["container_id"] = m[2]
	}
	if m := carrierMCRE.FindStringSubmatch(text); m != nil {
		out["carrier_mc"] = m[1]
	}
	if m := bookingDateRE.FindStringSubmatch(text); m != nil {
		out["booking_date"] = m[1]
	}
	if m := issueDateRE.FindStringSubmatch(text); m != nil {
		out["issue_date"] = m[1]
	}
	if currencyHintRE.MatchString(text) {
		out["currency_hint"] = "USD"
	}

	return out
}

// BuildPrefix renders detected metadata as a text prefix injected into
// chunk text before embedding. Returns "" when nothing was detected.
func BuildPrefix(meta map[string]string) string {
	var lines []string
	for _, k := range prefixKeys {
		if v := meta[k]; v != "" {
			lines = append(lines, "["+k+"="+v+"]")
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n---\n"
}
