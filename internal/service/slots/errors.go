package slots

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot not found")

	// ErrInvalidWeekday возвращается при дне недели вне диапазона 0..6
	ErrInvalidWeekday = errors.New("weekday must be between 0 and 6")

	// ErrInvalidTimeRange возвращается, когда начало слота не раньше его конца
	ErrInvalidTimeRange = errors.New("slot start must be before slot end")

	// ErrInvalidStep возвращается при некорректном шаге слота
	ErrInvalidStep = errors.New("invalid slot step")

	// ErrSlotOverlap возвращается, когда интервал слота пересекается с существующим
	// слотом того же дня недели (границы включительно)
	ErrSlotOverlap = errors.New("slot overlaps an existing slot for this weekday")

	// ErrDuplicateName возвращается при повторе имени слота в пределах дня недели
	// (без учёта регистра)
	ErrDuplicateName = errors.New("slot name already used for this weekday")

	// ErrSlotInUse возвращается при попытке удалить слот с привязками платёжных
	// групп или будущими бронированиями
	ErrSlotInUse = errors.New("slot has gate assignments or future reservations")

	// ErrNoSlotForTime возвращается, когда ни один слот не содержит указанное время
	ErrNoSlotForTime = errors.New("no slot exists for this time")

	// ErrIntegrity возвращается, когда хранилище вернуло больше одного слота для
	// одного момента времени. Нарушение инварианта непересечения - фатальная
	// ошибка целостности данных, а не пользовательская ошибка валидации.
	ErrIntegrity = errors.New("slots: integrity fault: multiple slots match a single datetime")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("slots service: internal error")
)
