package dataset

import (
	"fmt"
	"math"
	"sort"

	"github.com/ilkoid/poncho-dataset/pkg/random"
	"github.com/ilkoid/poncho-dataset/pkg/utils"
)

// Split — словарь "файл -> метка" одной части разбиения.
type Split map[string]string

// Files возвращает отсортированные имена файлов.
func (s Split) Files() []string {
	files := make([]string, 0, len(s))
	for f := range s {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Counts возвращает количество файлов по меткам.
func (s Split) Counts() map[string]int {
	counts := make(map[string]int)
	for _, label := range s {
		counts[label]++
	}
	return counts
}

// Labels возвращает отсортированные метки, встречающиеся в словаре.
func (s Split) Labels() []string {
	labels := make([]string, 0)
	for label := range s.Counts() {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Clone возвращает копию словаря.
func (s Split) Clone() Split {
	out := make(Split, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Partition — непересекающиеся train и validation.
type Partition struct {
	Train      Split
	Validation Split
}

// SplitOptions — параметры разбиения.
type SplitOptions struct {
	TrainFraction float64 // Доля train в [0, 1]
	Balance       bool    // Выравнивать количество файлов по меткам
	IgnoreGroups  bool    // Делить без учёта групп, даже если они загружены
}

// Split делит помеченные файлы на train и validation по каждой метке отдельно.
//
// Если загружены группы и IgnoreGroups == false, файлы одной группы
// всегда попадают в одну часть. Без загруженных меток возвращает
// ErrNoLabels, при доле вне [0, 1] — ErrInvalidFraction.
func (h *Handler) Split(opts SplitOptions) (*Partition, error) {
	if err := h.checkSplit(opts); err != nil {
		return nil, err
	}

	var p *Partition
	if h.groups != nil && !opts.IgnoreGroups {
		p = h.groupSplit(opts.TrainFraction)
	} else {
		p = h.flatSplit(opts.TrainFraction)
	}
	return h.finish(p, opts)
}

// SplitByGroups — Split, который требует загруженных групп.
func (h *Handler) SplitByGroups(opts SplitOptions) (*Partition, error) {
	if err := h.checkSplit(opts); err != nil {
		return nil, err
	}
	if h.groups == nil {
		return nil, warn(ErrNoGroups, "load groups before splitting by groups")
	}
	return h.finish(h.groupSplit(opts.TrainFraction), opts)
}

func (h *Handler) checkSplit(opts SplitOptions) error {
	if len(h.files) == 0 || h.labels == nil || len(h.uniqueLabels) == 0 {
		return warn(ErrNoLabels, "load labeled data before splitting")
	}
	f := opts.TrainFraction
	if math.IsNaN(f) || f < 0 || f > 1 {
		return warn(fmt.Errorf("%w: got %v", ErrInvalidFraction, f), "invalid train fraction")
	}
	return nil
}

func (h *Handler) finish(p *Partition, opts SplitOptions) (*Partition, error) {
	if opts.Balance {
		p = h.BalancePartition(p)
	}
	utils.Info("dataset split", "train", len(p.Train), "validation", len(p.Validation),
		"fraction", opts.TrainFraction, "balanced", opts.Balance)
	return p, nil
}

// indicesByLabel возвращает индексы файлов с меткой label по возрастанию.
func (h *Handler) indicesByLabel(label string) []int {
	var ids []int
	for i, l := range h.labels {
		if l == label {
			ids = append(ids, i)
		}
	}
	return ids
}

// flatSplit: для каждой метки перемешать индексы, первые
// ceil((1 - fraction) * n) уходят в validation.
func (h *Handler) flatSplit(fraction float64) *Partition {
	p := &Partition{Train: Split{}, Validation: Split{}}

	for _, label := range h.uniqueLabels {
		ids := h.indicesByLabel(label)
		random.Shuffle(h.seed, ids)

		startsAt := validationSize(1-fraction, len(ids))
		for _, i := range ids[:startsAt] {
			p.Validation[h.files[i]] = label
		}
		for _, i := range ids[startsAt:] {
			p.Train[h.files[i]] = label
		}
	}
	return p
}

// validationSize считает ceil(fraction * n), но произведение сначала
// округляется до 9 знаков. В отличие от простого ceil, при train = 0.7 и
// n = 10 получается 3, а не 4: (1 - 0.7) * 10 = 3.0000000000000004.
func validationSize(fraction float64, n int) int {
	v := math.Round(fraction*float64(n)*1e9) / 1e9
	size := int(math.Ceil(v))
	if size > n {
		size = n
	}
	if size < 0 {
		size = 0
	}
	return size
}

// groupSplit: для каждой метки обойти её группы в перемешанном порядке.
// Группа целиком уходит в train, пока число уже размещённых файлов
// не превышает fraction * n, иначе целиком в validation.
//
// Группа, встречающаяся у нескольких меток, размещается один раз: у
// следующих меток её файлы идут в ту же часть и учитываются в placed.
func (h *Handler) groupSplit(fraction float64) *Partition {
	p := &Partition{Train: Split{}, Validation: Split{}}
	inTrain := make(map[string]bool)

	for _, label := range h.uniqueLabels {
		ids := h.indicesByLabel(label)

		members := make(map[string][]int)
		for _, i := range ids {
			members[h.groups[i]] = append(members[h.groups[i]], i)
		}
		groups := make([]string, 0, len(members))
		for g := range members {
			groups = append(groups, g)
		}
		sort.Strings(groups)

		trainCap := fraction * float64(len(ids))
		placed := 0
		for _, gi := range random.Permutation(h.seed, len(groups)) {
			group := groups[gi]
			train, seen := inTrain[group]
			if !seen {
				train = float64(placed) <= trainCap
				inTrain[group] = train
			}

			dst := p.Validation
			if train {
				dst = p.Train
			}
			for _, i := range members[group] {
				dst[h.files[i]] = label
			}
			placed += len(members[group])
		}
	}
	return p
}

// Balance выравнивает словарь сидом Handler.
func (h *Handler) Balance(s Split) Split {
	return Balance(s, h.seed)
}

// BalancePartition выравнивает train и validation независимо.
func (h *Handler) BalancePartition(p *Partition) *Partition {
	return &Partition{
		Train:      h.Balance(p.Train),
		Validation: h.Balance(p.Validation),
	}
}

// Balance оставляет у каждой метки столько файлов, сколько у самой
// малочисленной из присутствующих меток. Лишние файлы выбираются
// перемешиванием отсортированного списка файлов метки.
//
// Исходный словарь не меняется. Пустой словарь возвращается пустой копией.
func Balance(s Split, seed int64) Split {
	out := s.Clone()

	counts := s.Counts()
	keep := math.MaxInt
	for _, n := range counts {
		if n > 0 && n < keep {
			keep = n
		}
	}
	if keep == math.MaxInt {
		return out
	}

	byLabel := make(map[string][]string, len(counts))
	for _, f := range s.Files() {
		byLabel[s[f]] = append(byLabel[s[f]], f)
	}

	for _, label := range s.Labels() {
		files := byLabel[label]
		diff := len(files) - keep
		if diff <= 0 {
			continue
		}
		random.Shuffle(seed, files)
		for _, f := range files[:diff] {
			delete(out, f)
		}
	}
	return out
}
