package ledger

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// Annotator выдает декоративный символ для записи истории.
// Вызывается один раз на вставленный план и не должен блокироваться.
type Annotator interface {
	Annotate(planID uuid.UUID) string
}

// AnnotatorFunc позволяет использовать функцию как Annotator
type AnnotatorFunc func(planID uuid.UUID) string

func (f AnnotatorFunc) Annotate(planID uuid.UUID) string {
	return f(planID)
}

var faces = []string{"😀", "😁", "😊", "🙂", "😎", "🤩", "🥳", "🤔", "🤗"}

// RandomFace выбирает случайный эмодзи-смайлик
type RandomFace struct{}

func (RandomFace) Annotate(uuid.UUID) string {
	return faces[rand.IntN(len(faces))]
}
