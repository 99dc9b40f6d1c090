package poller

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"UpNepa/internal/contracts"
)

// Границы интервала опроса
const (
	minInterval = 1 * time.Second
	maxInterval = 10 * time.Second
)

// updatesBatchLimit ограничивает размер пакета обновлений за один запрос
const updatesBatchLimit = 100

// Poller периодически забирает обновления из канала и передает их диспетчеру.
// Владеет курсором nextOffset — наименьшим update_id, который еще не
// гарантированно обработан. Курсор живет только в памяти процесса: после
// рестарта возможна повторная доставка уже обработанных обновлений, она
// безопасна за счет проверки update_id против курсора.
type Poller struct {
	channel    contracts.UpdateChannel
	dispatcher *Dispatcher
	interval   time.Duration

	cron *cron.Cron

	// pollMu не допускает больше одного цикла опроса одновременно
	pollMu sync.Mutex

	mu        sync.Mutex
	isRunning bool

	// nextOffset == 0 означает отсутствие курсора: первый запрос
	// забирает все доступные обновления
	nextOffset int
}

// New создает новый Poller. Интервал опроса ограничивается диапазоном 1-10 секунд.
func New(channel contracts.UpdateChannel, dispatcher *Dispatcher, interval time.Duration) *Poller {
	if interval < minInterval {
		interval = minInterval
	}
	if interval > maxInterval {
		interval = maxInterval
	}

	return &Poller{
		channel:    channel,
		dispatcher: dispatcher,
		interval:   interval,
	}
}

// Start запускает периодический опрос
func (p *Poller) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return fmt.Errorf("опрос уже запущен")
	}

	p.cron = cron.New()
	spec := fmt.Sprintf("@every %ds", int(p.interval.Seconds()))
	if _, err := p.cron.AddFunc(spec, p.tick); err != nil {
		return fmt.Errorf("ошибка планирования опроса: %w", err)
	}

	p.cron.Start()
	p.isRunning = true

	log.Printf("[Poller] Опрос обновлений запущен с интервалом %v", p.interval)
	return nil
}

// Stop останавливает опрос, дождавшись завершения текущего цикла.
// Незавершенный пакет не прерывается: курсор двигается только после
// полной обработки пакета.
func (p *Poller) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isRunning {
		return fmt.Errorf("опрос не запущен")
	}

	ctx := p.cron.Stop()
	<-ctx.Done()
	p.isRunning = false

	log.Printf("[Poller] Опрос обновлений остановлен")
	return nil
}

// IsRunning проверяет, запущен ли опрос
func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isRunning
}

// NextOffset возвращает текущее значение курсора
func (p *Poller) NextOffset() int {
	p.pollMu.Lock()
	defer p.pollMu.Unlock()
	return p.nextOffset
}

// tick выполняет один цикл опроса по расписанию.
// Если предыдущий цикл еще не завершился, запуск пропускается —
// новый цикл не должен гонять курсор наперегонки с текущим.
func (p *Poller) tick() {
	if !p.pollMu.TryLock() {
		log.Printf("[Poller] Предыдущий цикл опроса еще выполняется, пропускаем запуск")
		return
	}
	defer p.pollMu.Unlock()

	if err := p.pollOnce(); err != nil {
		// Ошибка получения обновлений не фатальна: курсор не сдвинут,
		// следующий запуск по расписанию повторит запрос
		log.Printf("[Poller] Ошибка цикла опроса: %v", err)
	}
}

// PollOnce выполняет один цикл опроса: забирает пакет обновлений,
// обрабатывает его и передвигает курсор
func (p *Poller) PollOnce() error {
	p.pollMu.Lock()
	defer p.pollMu.Unlock()
	return p.pollOnce()
}

func (p *Poller) pollOnce() error {
	updates, err := p.channel.ListUpdates(p.nextOffset, updatesBatchLimit)
	if err != nil {
		return fmt.Errorf("ошибка получения обновлений: %w", err)
	}

	if len(updates) == 0 {
		return nil
	}

	// Обрабатываем строго по возрастанию update_id: при нескольких
	// сообщениях одного пользователя в пакете побеждает самое свежее
	sort.Slice(updates, func(i, j int) bool {
		return updates[i].UpdateID < updates[j].UpdateID
	})

	maxID := p.nextOffset - 1
	for _, update := range updates {
		if update.UpdateID > maxID {
			maxID = update.UpdateID
		}

		if update.UpdateID < p.nextOffset {
			// Уже обработано в предыдущем цикле: пакеты могут
			// пересекаться, повторная доставка учитывается только курсором
			log.Printf("[Poller] Обновление %d уже обработано, пропускаем", update.UpdateID)
			continue
		}

		// Ошибка отдельного обновления не прерывает пакет и не задерживает
		// курсор: обновление считается увиденным, привязка чата выполняется
		// не более одного раза
		if err := p.dispatcher.Dispatch(update); err != nil {
			log.Printf("[Poller] Ошибка обработки обновления %d: %v", update.UpdateID, err)
		}
	}

	// Эксклюзивный курсор: следующий запрос начнется с maxID+1,
	// уже обработанные обновления повторно не доставляются
	p.nextOffset = maxID + 1
	return nil
}
