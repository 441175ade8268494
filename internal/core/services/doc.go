// Package services implements the core use cases: document ingestion,
// hybrid retrieval, confidence calibration and guarded answering.
//
// Services contain the business logic and depend only on domain types
// and port interfaces, never on concrete adapters.
package services
