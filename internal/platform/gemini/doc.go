// Package gemini provides an implementation of the translate.Translator
// interface that asks Google's Gemini API for translations of a word.
//
// This package is an infrastructure adapter connecting the lookup workflow
// to an external LLM service. The model is prompted to answer with a JSON
// array of candidate translations, which is parsed and cleaned the same way
// as any other provider's candidates, so callers never see Gemini specifics.
package gemini
