package domain

// LoadState описывает состояние загрузки сводки.
type LoadState string

const (
	LoadStateLoading   LoadState = "loading"
	LoadStateFailed    LoadState = "failed"
	LoadStateSucceeded LoadState = "succeeded"
)

// LoadResult описывает результат загрузки сводки за запрошенный день.
// При Degraded содержимое относится к Digest.Date, а не к RequestedDate.
type LoadResult struct {
	State         LoadState    `json:"state"`
	RequestID     string       `json:"request_id"`
	RequestedDate string       `json:"requested_date"`
	Digest        *DailyDigest `json:"digest,omitempty"`
	Degraded      bool         `json:"degraded"`
	Note          string       `json:"note,omitempty"`
	Reason        string       `json:"error,omitempty"`
}

// Loading сообщает, что запрос ещё выполняется.
func (r LoadResult) Loading() bool { return r.State == LoadStateLoading }

// Failed сообщает, что не удалось загрузить ни день, ни последний архив.
func (r LoadResult) Failed() bool { return r.State == LoadStateFailed }

// Succeeded сообщает, что сводка получена.
func (r LoadResult) Succeeded() bool { return r.State == LoadStateSucceeded && r.Digest != nil }

// DisplayedDate возвращает дату фактически показанного содержимого.
func (r LoadResult) DisplayedDate() string {
	if r.Digest == nil {
		return ""
	}
	return r.Digest.Date
}
