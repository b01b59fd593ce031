package catalog

import "github.com/mmcdole/lectern/internal/domain"

// DefaultCourses is the built-in course list used when the config defines none
func DefaultCourses() []domain.Course {
	return []domain.Course{
		{
			ID:          "js-basics",
			Title:       "Основы JavaScript",
			Description: "Изучите базовые концепции JavaScript, включая переменные, типы данных, функции и объекты.",
			Lectures: []domain.LectureMetadata{
				{ID: "0-introduction", Title: "Введение", Order: 0},
			},
		},
		{
			ID:          "js-advanced",
			Title:       "Продвинутый JavaScript",
			Description: "Углубленное изучение JavaScript: замыкания, прототипы, асинхронное программирование.",
			Lectures: []domain.LectureMetadata{
				{ID: "0-introduction", Title: "Введение", Order: 0},
				{ID: "01-forEach", Title: "Метод forEach", Order: 1},
				{ID: "02-map", Title: "Метод map", Order: 2},
				{ID: "03-filter", Title: "Метод filter", Order: 3},
				{ID: "04-every-some", Title: "Методы every и some", Order: 4},
				{ID: "05-reduce", Title: "Метод reduce", Order: 5},
				{ID: "06-arguments", Title: "Объект arguments", Order: 6},
				{ID: "07-types", Title: "Типы данных", Order: 7},
				{ID: "08-this", Title: "Ключевое слово this", Order: 8},
				{ID: "09-closures", Title: "Замыкания", Order: 9},
				{ID: "10-modules", Title: "Модули", Order: 10},
				{ID: "11-call", Title: "Метод call", Order: 11},
				{ID: "12-apply", Title: "Метод apply", Order: 12},
				{ID: "13-bind", Title: "Метод bind", Order: 13},
				{ID: "14-currying", Title: "Каррирование", Order: 14},
			},
		},
		{
			ID:          "react-basics",
			Title:       "Основы React",
			Description: "Начните работу с React: компоненты, пропсы, состояние и основные хуки.",
			Lectures: []domain.LectureMetadata{
				{ID: "0-introduction", Title: "Введение", Order: 0},
			},
		},
	}
}
