package english

import "strings"

// wordSet builds a lookup set from a whitespace-separated word list.
func wordSet(words string) map[string]struct{} {
	fields := strings.Fields(words)
	s := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		s[f] = struct{}{}
	}
	return s
}

// wordMap builds a lookup map from a whitespace-separated list of
// "form:base" pairs.
func wordMap(pairs string) map[string]string {
	fields := strings.Fields(pairs)
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		form, base, ok := strings.Cut(f, ":")
		if !ok {
			continue
		}
		m[form] = base
	}
	return m
}

var determiners = wordSet(`
	a an the this that these those my your his her its our their
	some any every each no another either neither all both few many much several
	two three four five six seven eight nine ten hundred thousand
`)

var pronouns = wordSet(`
	i me you he him she her it we us they them
	myself yourself himself herself itself ourselves yourselves themselves
	someone somebody something anyone anybody anything
	everyone everybody everything nothing nobody none
	mine yours hers ours theirs
`)

var prepositions = wordSet(`
	in on at to from with without about for of by into onto over under above
	below between among through during before after around near behind beside
	inside outside across along against toward towards up down off out past
	since until upon within like than via
`)

var conjunctions = wordSet(`
	and or but so because if then while although though unless whether yet nor that
`)

var questionWords = wordSet(`what where who when why how which whom whose`)

var adverbs = wordSet(`
	very really quite too also just only even still already always never often
	sometimes usually rarely seldom soon now then here there today tonight
	tomorrow yesterday again away back together please maybe perhaps almost
	enough ever later once twice nowhere
`)

// auxiliaries maps auxiliary and modal forms (including negated
// contractions) to their base form.
var auxiliaries = wordMap(`
	be:be am:be is:be are:be was:be were:be been:be being:be
	have:have has:have had:have having:have
	do:do does:do did:do
	will:will would:would shall:shall should:should can:can could:could
	may:may might:might must:must cannot:can
	don't:do doesn't:do didn't:do
	isn't:be aren't:be wasn't:be weren't:be ain't:be
	haven't:have hasn't:have hadn't:have
	won't:will wouldn't:would shan't:shall shouldn't:should
	can't:can couldn't:could mightn't:might mustn't:must
`)

var adjectives = wordSet(`
	happy sad angry good bad big small little large tall short long old new young
	hot cold warm cool hungry thirsty tired sick ill fine great nice beautiful
	pretty ugly kind mean funny serious busy free full empty rich poor strong
	weak fast slow easy hard difficult important ready sorry sure afraid scared
	excited bored lonely quiet loud clean dirty dark bright red blue green yellow
	black white brown pink orange purple grey gray favorite favourite best better
	worse worst first last next other same different right wrong true false open
	closed late early soft heavy light safe dangerous careful deaf delicious
	sweet sour bitter cute smart clever lazy brave proud calm nervous wonderful
	terrible awesome amazing
`)

var nouns = wordSet(`
	man woman boy girl child baby people person friend family mother father mom
	dad mum brother sister son daughter husband wife parent grandmother
	grandfather grandma grandpa teacher student doctor nurse police cat dog bird
	fish horse cow pig sheep chicken duck mouse rabbit lion tiger bear elephant
	monkey animal house home school class room kitchen bathroom bed bedroom door
	window table chair car bus train bike bicycle plane boat road street city
	town country world water food bread milk juice coffee tea apple banana orange
	egg rice meat cake pizza sandwich soup fruit vegetable breakfast lunch dinner
	meal book paper pen pencil letter phone computer money job work office shop
	store market hospital church park garden tree flower sun moon star sky rain
	snow wind weather day night morning afternoon evening week month year time
	hour minute birthday name age game ball toy music song movie television tv
	picture color colour shirt shoe clothes hat dress bag box cup glass plate
	spoon fork knife head hand eye ear face hair mouth nose leg foot arm body
	heart help love life language sign question answer problem idea story news
	party holiday vacation sport football soccer homework test exam lesson word
	sentence library bank restaurant airport station beach sea river mountain
	island lake forest farm zoo team group boss worker light right drink walk
	dream kiss hug dance call watch look cook play visit study need smile sleep
	hope wish care plan change
`)

var verbs = wordSet(`
	be have do go come get make take give see look watch hear listen say tell
	talk speak ask answer know think understand learn teach study read write draw
	sing dance play work help want need like love hate feel eat drink cook sleep
	wake walk run jump swim sit stand fly drive ride open close start stop finish
	begin wait stay live leave arrive meet visit call find lose buy sell pay
	spend bring carry send show try use wear wash clean brush build break fix cut
	hold keep put throw catch kick hit push pull chase follow win miss remember
	forget believe hope wish worry cry laugh smile kiss hug marry move change
	turn travel sign hurt die grow fall rain snow enjoy prefer choose decide plan
	happen become seem let allow mean explain agree share care bark bite
	climb sing shout cry
`)

// irregularVerbs maps irregular inflected verb forms to their base form.
var irregularVerbs = wordMap(`
	went:go gone:go came:come got:get gotten:get made:make took:take taken:take
	gave:give given:give saw:see seen:see heard:hear said:say told:tell
	spoke:speak spoken:speak knew:know known:know thought:think
	understood:understand taught:teach wrote:write written:write drew:draw
	drawn:draw sang:sing sung:sing ate:eat eaten:eat drank:drink drunk:drink
	slept:sleep woke:wake woken:wake ran:run swam:swim swum:swim sat:sit
	stood:stand flew:fly flown:fly drove:drive driven:drive rode:ride
	ridden:ride began:begin begun:begin left:leave met:meet found:find lost:lose
	bought:buy sold:sell paid:pay spent:spend brought:bring sent:send wore:wear
	worn:wear built:build broke:break broken:break held:hold kept:keep
	threw:throw thrown:throw caught:catch won:win felt:feel fell:fall
	fallen:fall grew:grow grown:grow became:become meant:mean chose:choose
	chosen:choose forgot:forget forgotten:forget bit:bite bitten:bite
	flies:fly cries:cry tries:try
`)

// irregularPlurals maps irregular plural nouns to their singular form.
var irregularPlurals = wordMap(`
	children:child people:person men:man women:woman mice:mouse feet:foot
	teeth:tooth geese:goose
`)

// negationMarkers are tokens tagged as grammatical negation regardless of
// their part of speech. Any token ending in "n't" is also a marker.
var negationMarkers = wordSet(`not never no nothing nobody none nowhere neither nor cannot`)

// possessiveBases are words whose "'s" contraction means "is" rather than a
// possessive.
var possessiveBases = wordSet(`he she it that what who where there here how`)
