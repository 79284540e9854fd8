// Package services implements the driving port interfaces.
// Services contain the document-to-answer pipeline and orchestrate
// calls to driven ports (adapters).
//
// The pipeline runs as explicit stages: DocumentLoader turns files into
// raw documents, the chunker splits them into passages, IndexBuilder
// embeds passages into a vector index and AnswerEngine retrieves passages
// and asks the language model. Session ties the stages together for one
// user's document set.
package services
