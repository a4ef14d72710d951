package sqlinline

const QListSeasons = `--sql 747c0c11-4e79-4c6a-90b2-752166fdcb24
select id, name, start_date, end_date, is_active
from seasons
order by start_date desc;
`

const QSelectActiveSeason = `--sql 67b4a03a-57b8-4576-b2a2-e5355714452c
select id, name, start_date, end_date, is_active
from seasons
where is_active
order by start_date desc
limit 1;
`
