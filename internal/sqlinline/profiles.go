package sqlinline

const QSelectProfileTotalByNickname = `--sql a5494bab-cc42-41bd-b7a0-aaba507bc700
select id, nickname, total_donation
from profiles
where lower(nickname) = lower($1::text);
`
