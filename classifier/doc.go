// Package classifier provides the two intent classifiers: a pure keyword
// Heuristic and a ModelClassifier that asks a language model for a
// structured verdict. Both implement core.Classifier.
package classifier
