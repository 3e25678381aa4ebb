// Package catalog объединяет глобальный каталог по умолчанию с записями
// проекта в том же домене (рейтинги, schedule, размеры, описания компонентов).
package catalog

// Scope - где живёт запись каталога.
type Scope string

const (
	ScopeDefault Scope = "default"
	ScopeProject Scope = "project"
)

// Entry - одна запись каталога. A - типизированные атрибуты домена.
type Entry[A any] struct {
	ID        uint  `json:"id"`
	Scope     Scope `json:"scope"`
	ProjectID *uint `json:"project_id,omitempty"`
	Attrs     A     `json:"attributes"`
}

// Merge накладывает записи проекта на записи по умолчанию по ключу key.
//
// В результате ровно одна запись на каждый ключ. Запись проекта всегда
// заменяет запись по умолчанию с тем же ключом, записи проекта с новыми
// ключами добавляются в конец. Порядок - порядок вставки: сначала defaults
// как переданы, затем новые ключи overrides в порядке следования. Если ключ
// повторяется, побеждает последняя запись, позиция остаётся от первой.
//
// Входные срезы не изменяются. Сортировка - забота вызывающего.
func Merge[A any, K comparable](defaults, overrides []Entry[A], key func(A) K) []Entry[A] {
	out := make([]Entry[A], 0, len(defaults)+len(overrides))
	index := make(map[K]int, len(defaults)+len(overrides))

	put := func(e Entry[A]) {
		k := key(e.Attrs)
		if i, ok := index[k]; ok {
			out[i] = e
			return
		}
		index[k] = len(out)
		out = append(out, e)
	}

	for _, e := range defaults {
		put(e)
	}
	for _, e := range overrides {
		put(e)
	}

	return out
}

// Keys возвращает ключи записей в том же порядке.
func Keys[A any, K comparable](entries []Entry[A], key func(A) K) []K {
	keys := make([]K, len(entries))
	for i, e := range entries {
		keys[i] = key(e.Attrs)
	}
	return keys
}

// Filter оставляет записи, для которых keep вернул true, порядок сохраняется.
func Filter[A any](entries []Entry[A], keep func(A) bool) []Entry[A] {
	out := make([]Entry[A], 0, len(entries))
	for _, e := range entries {
		if keep(e.Attrs) {
			out = append(out, e)
		}
	}
	return out
}
